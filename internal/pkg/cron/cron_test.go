package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	leave.LeaveService

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (f *fakeLeaveService) GetLeaveBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[employeeID] = year
	if f.fail[employeeID] {
		return nil, errors.New("boom")
	}
	return nil, nil
}

func seedEmployees(t *testing.T, repo *memory.EmployeeRepository) (active, inactive employee.Employee) {
	t.Helper()
	ctx := context.Background()

	active, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP-001", FullName: "Asha Rao", Email: "asha@example.com",
		EmploymentType: employee.EmploymentTypeFullTime, IsActive: true,
		HireDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	inactive, err = repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP-002", FullName: "Ravi Iyer", Email: "ravi@example.com",
		EmploymentType: employee.EmploymentTypeFullTime, IsActive: true,
		HireDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, inactive.ID, false))

	return active, inactive
}

func TestLeaveJobs_ProvisionBalances(t *testing.T) {
	repo := memory.NewEmployeeRepository()
	active, inactive := seedEmployees(t, repo)

	svc := &fakeLeaveService{calls: map[string]int{}, fail: map[string]bool{}}
	now := func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }
	jobs := NewLeaveJobs(repo, svc, now)

	require.NoError(t, jobs.ProvisionBalances(context.Background()))

	assert.Equal(t, 2024, svc.calls[active.ID])
	assert.NotContains(t, svc.calls, inactive.ID)
}

func TestLeaveJobs_ProvisionBalances_ReportsFailures(t *testing.T) {
	repo := memory.NewEmployeeRepository()
	active, _ := seedEmployees(t, repo)

	svc := &fakeLeaveService{calls: map[string]int{}, fail: map[string]bool{active.ID: true}}
	jobs := NewLeaveJobs(repo, svc, nil)

	err := jobs.ProvisionBalances(context.Background())
	assert.Error(t, err)
	assert.Contains(t, svc.calls, active.ID)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "second")
		return errors.New("second failed")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	var count atomic.Int32
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		if count.Add(1) == 1 {
			started <- struct{}{}
		}
		return nil
	})

	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	assert.Equal(t, int32(1), count.Load())
}
