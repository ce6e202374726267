package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

func TestSanitizeRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back", "", DefaultRedirectPath},
		{"plain path passes", "/subjects/sbj_abc", "/subjects/sbj_abc"},
		{"path with query passes", "/observations?subject_id=sbj_abc", "/observations?subject_id=sbj_abc"},
		{"relative path rejected", "subjects", DefaultRedirectPath},
		{"scheme-relative rejected", "//evil.example.com", DefaultRedirectPath},
		{"absolute url rejected", "https://evil.example.com/dashboard", DefaultRedirectPath},
		{"embedded scheme rejected", "/redirect?to=https://evil.example.com", DefaultRedirectPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeRedirectPath(tt.in))
		})
	}
}

func TestIsAllowedDomain(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, []string{"pepschoolv2.com", "accelschool.in", "ribbons.education"}, logger.NewLogger())

	tests := []struct {
		email string
		want  bool
	}{
		{"priya@pepschoolv2.com", true},
		{"admin@accelschool.in", true},
		{"hr@ribbons.education", true},
		{"someone@gmail.com", false},
		{"spoof@pepschoolv2.com.evil.com", false},
		{"no-at-sign", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.isAllowedDomain(tt.email))
		})
	}
}

func TestLoginFailureError(t *testing.T) {
	err := &LoginFailure{Code: FailureDeactivated}
	assert.Equal(t, "login failed: deactivated", err.Error())
}
