package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	transactor     database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaves         leave.CoverageReader
	policy         attendance.Policy
	now            func() time.Time
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaves leave.CoverageReader,
	policy attendance.Policy,
	now func() time.Time,
) attendance.AttendanceService {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		transactor:     transactor,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaves:         leaves,
		policy:         policy,
		now:            now,
	}
}

// eventTime parses the optional event instant. It must fall on today's date
// in the policy timezone and not be in the future; past days are closed.
func (s *AttendanceServiceImpl) eventTime(raw string) (time.Time, error) {
	now := s.now()
	if raw == "" {
		return now, nil
	}

	at, _ := validator.IsValidDateTime(raw)
	var errs validator.ValidationErrors
	switch {
	case at.After(now):
		errs.Add("at", "at must not be in the future")
	case !calendar.DateIn(at, s.policy.Location).Equal(calendar.DateIn(now, s.policy.Location)):
		errs.Add("at", "at must fall on the current date")
	}
	if err := errs.Err(); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.ErrEmployeeInactive
	}
	return nil
}

// CheckIn opens the attendance record of the day the instant falls on.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	at, err := s.eventTime(req.At)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := s.activeEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	date := calendar.DateIn(at, s.policy.Location)
	checkIn := at.UTC()

	var created attendance.Record
	err = s.transactor.WithinEmployee(ctx, req.EmployeeID, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		if existing != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		created, err = s.attendanceRepo.Create(ctx, attendance.Record{
			EmployeeID: req.EmployeeID,
			Date:       date,
			CheckIn:    &checkIn,
			Status:     checkInStatus(s.policy, date, at),
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return err
			}
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	slog.Info("Employee checked in",
		"employee_id", created.EmployeeID,
		"date", date.Format(calendar.DateLayout),
		"status", created.Status,
	)
	return attendance.ToRecordResponse(created), nil
}

// CheckOut closes the record of the day the instant falls on and derives
// worked hours and the final status.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	at, err := s.eventTime(req.At)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	date := calendar.DateIn(at, s.policy.Location)
	checkOut := at.UTC()

	var record attendance.Record
	err = s.transactor.WithinEmployee(ctx, req.EmployeeID, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		if existing == nil || existing.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if existing.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if checkOut.Before(*existing.CheckIn) {
			return attendance.ErrCheckOutBeforeCheckIn
		}

		record = *existing
		record.CheckOut = &checkOut
		record.WorkedHours = workedHours(*existing.CheckIn, checkOut)
		record.Status = checkOutStatus(s.policy, existing.Status, record.WorkedHours)

		if err := s.attendanceRepo.CloseRecord(ctx, record); err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
				return err
			}
			return fmt.Errorf("failed to close attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	slog.Info("Employee checked out",
		"employee_id", record.EmployeeID,
		"date", date.Format(calendar.DateLayout),
		"status", record.Status,
		"worked_hours", record.WorkedHours.String(),
	)
	return attendance.ToRecordResponse(record), nil
}

func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	from, _ := calendar.ParseDate(req.From)
	to, _ := calendar.ParseDate(req.To)

	summary, err := s.Summarize(ctx, req.EmployeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	return attendance.ToSummaryResponse(summary), nil
}

// Summarize implements attendance.Summarizer. It reads only and takes no
// employee lock.
func (s *AttendanceServiceImpl) Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	from, to = calendar.Date(from), calendar.Date(to)

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	coverage, err := s.leaves.ApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	today := calendar.DateIn(s.now(), s.policy.Location)
	summary, err := resolveDays(s.policy, employeeID, from, to, today, records, coverage)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to resolve attendance days: %w", err)
	}
	return summary, nil
}
