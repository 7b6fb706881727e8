package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"driver", RoleDriver, false},
		{"admin", RoleAdmin, false},
		{"teacher", RoleTeacher, false},
		{"", RoleStudent, false},       // registration default
		{"  Admin ", RoleAdmin, false}, // casing and whitespace normalized
		{"DRIVER", RoleDriver, false},
		{"commuter", "", true},
		{"superadmin", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRole, "input %q", tc.in)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
