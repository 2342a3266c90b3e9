package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
)

type attendanceKey struct {
	employeeID string
	date       time.Time
}

type AttendanceRepository struct {
	mu   sync.RWMutex
	rows map[attendanceKey]attendance.Record
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{rows: make(map[attendanceKey]attendance.Record)}
}

func (r *AttendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{record.EmployeeID, calendar.Date(record.Date)}
	if _, ok := r.rows[key]; ok {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}

	record.ID = newID()
	record.Date = key.date
	record.CreatedAt, record.UpdatedAt = now(), now()
	r.rows[key] = record
	return record, nil
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rows[attendanceKey{employeeID, calendar.Date(date)}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *AttendanceRepository) CloseRecord(ctx context.Context, record attendance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{record.EmployeeID, calendar.Date(record.Date)}
	existing, ok := r.rows[key]
	if !ok || existing.ID != record.ID {
		return attendance.ErrAttendanceNotFound
	}
	if existing.CheckOut != nil {
		return attendance.ErrAlreadyCheckedOut
	}

	existing.CheckOut = record.CheckOut
	existing.Status = record.Status
	existing.WorkedHours = record.WorkedHours
	existing.UpdatedAt = now()
	r.rows[key] = existing
	return nil
}

func (r *AttendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []attendance.Record
	for key, rec := range r.rows {
		if key.employeeID == employeeID && calendar.Contains(from, to, key.date) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
