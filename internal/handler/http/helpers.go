package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
)

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func callerClaims(r *http.Request) (auth.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return claims, nil
}

// targetEmployee returns the employee a read request is about: the
// employee_id query parameter when given, the caller otherwise. Employees
// may only name themselves.
func targetEmployee(r *http.Request) (string, auth.Claims, error) {
	claims, err := callerClaims(r)
	if err != nil {
		return "", auth.Claims{}, err
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = claims.EmployeeID
	}
	if !claims.CanAccess(employeeID) {
		return "", claims, auth.ErrForbidden
	}
	return employeeID, claims, nil
}

func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
