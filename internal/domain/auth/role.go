package auth

type Role string

const (
	RoleEmployee Role = "employee" // Own attendance, leave and payslips
	RoleHR       Role = "hr"       // Reviews leave, runs payroll
	RoleAdmin    Role = "admin"    // Everything hr can, plus salary templates
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// IsManager reports whether the role may act on other employees' data.
func (r Role) IsManager() bool {
	return r == RoleHR || r == RoleAdmin
}

// Claims is the verified identity carried by an access token.
type Claims struct {
	EmployeeID string
	Role       Role
}

// CanAccess reports whether the caller may read or act on employeeID's data.
func (c Claims) CanAccess(employeeID string) bool {
	return c.Role.IsManager() || c.EmployeeID == employeeID
}
