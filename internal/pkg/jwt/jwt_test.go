package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", auth.RoleHR)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	m, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	claims, err := ClaimsFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{EmployeeID: "emp-1", Role: auth.RoleHR}, claims)
}

func TestGenerateAccessToken_Errors(t *testing.T) {
	_, _, err := NewJWTService("test-secret", "1h").GenerateAccessToken("emp-1", auth.Role("owner"))
	assert.ErrorIs(t, err, auth.ErrInvalidRole)

	_, _, err = NewJWTService("test-secret", "soon").GenerateAccessToken("emp-1", auth.RoleEmployee)
	assert.Error(t, err)
}

func TestClaimsFromMap(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{"refresh token", map[string]interface{}{"type": "refresh", "employee_id": "e1", "role": "hr"}},
		{"missing employee", map[string]interface{}{"type": "access", "role": "hr"}},
		{"unknown role", map[string]interface{}{"type": "access", "employee_id": "e1", "role": "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClaimsFromMap(tt.claims)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
