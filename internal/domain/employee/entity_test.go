package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleProductivity(t *testing.T) {
	cases := []struct {
		role Role
		want float64
	}{
		{RoleTechnicus, 1},
		{RoleConstructie, 1},
		{RoleExpeditie, 1},
		{RoleBala, 1},
		{RoleMeewerkendVoorman, 0.5},
		{RoleTeamleider, 0},
		{RoleManager, 0},
		{RoleWVB, 0},
		{Role("Stagiair"), 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.role.Productivity(), string(c.role))
	}
	assert.False(t, Role("Stagiair").IsValid())
	assert.Equal(t, RoleTechnicus, Roles()[0])
}

func TestBaseHours(t *testing.T) {
	assert.Equal(t, 8.0, Employee{}.BaseHours())
	assert.Equal(t, 6.0, Employee{DailyHours: 6}.BaseHours())
}

func TestUpdateEmployeeRequestValidate(t *testing.T) {
	empty := ""
	bad := "Stagiair"
	hours := 30.0

	req := UpdateEmployeeRequest{Name: &empty, Role: &bad, DailyHours: &hours}
	err := req.Validate()
	if assert.Error(t, err) {
		assert.Len(t, err.(interface{ ToMap() map[string]string }).ToMap(), 3)
	}

	name := "Eva"
	req = UpdateEmployeeRequest{Name: &name}
	assert.NoError(t, req.Validate())

	e := Employee{Name: "Alex", Role: RoleTechnicus}
	req.Apply(&e)
	assert.Equal(t, "Eva", e.Name)
	assert.Equal(t, RoleTechnicus, e.Role)
}
