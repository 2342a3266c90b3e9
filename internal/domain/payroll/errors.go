package payroll

import "errors"

var (
	// Computation errors
	ErrNegativeWage    = errors.New("monthly wage must be greater than zero")
	ErrInvalidTemplate = errors.New("salary template produces an invalid breakdown")
	ErrNoWorkingDays   = errors.New("pay period has no working days")

	// Payslip errors
	ErrPayslipNotFound     = errors.New("payslip not found")
	ErrDuplicatePayslip    = errors.New("payslip already processed for this employee and period")
	ErrImmutablePayslip    = errors.New("payslip is paid and can no longer be modified")
	ErrInvalidPayslipState = errors.New("payslip is not in a valid state for this action")
	ErrInvalidPeriod       = errors.New("invalid pay period")
)
