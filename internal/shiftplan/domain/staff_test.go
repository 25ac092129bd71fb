package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/stretchr/testify/assert"
)

func TestStaff_Role(t *testing.T) {
	cases := []struct {
		name string
		s    domain.Staff
		want domain.RoleLabel
	}{
		{"regular", domain.Staff{}, domain.RoleRegular},
		{"key person", domain.Staff{IsKeyPerson: true}, domain.RoleKeyPerson},
		{"newbie", domain.Staff{IsNewbie: true}, domain.RoleNewbie},
		{"both", domain.Staff{IsKeyPerson: true, IsNewbie: true}, domain.RoleKeyPersonAndNewbie},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.s.Role())
		})
	}
}
