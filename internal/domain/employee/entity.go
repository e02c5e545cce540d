package employee

// DefaultDailyHours is used when an employee carries no usable hours per day.
const DefaultDailyHours = 8.0

// Employee is a member of a werkplaats in the weekly planning. JSON keys
// match the persisted snapshot format.
type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"naam"`
	Role       Role    `json:"rol"`
	Werkplaats string  `json:"werkplaats"`
	DailyHours float64 `json:"urenPerDag"`
}

// BaseHours is the nominal day length, falling back to DefaultDailyHours
// when unset.
func (e Employee) BaseHours() float64 {
	if e.DailyHours == 0 {
		return DefaultDailyHours
	}
	return e.DailyHours
}

type Role string

const (
	RoleTechnicus         Role = "Technicus"
	RoleConstructie       Role = "Constructie"
	RoleExpeditie         Role = "Expeditie"
	RoleBala              Role = "Bala"
	RoleMeewerkendVoorman Role = "Meewerkend voorman"
	RoleTeamleider        Role = "Teamleider"
	RoleManager           Role = "Manager"
	RoleWVB               Role = "WVB"
)

// DefaultRole is assigned to employees stored without a role.
const DefaultRole = RoleTechnicus

var roles = []Role{
	RoleTechnicus,
	RoleConstructie,
	RoleExpeditie,
	RoleBala,
	RoleMeewerkendVoorman,
	RoleTeamleider,
	RoleManager,
	RoleWVB,
}

var productivity = map[Role]float64{
	RoleTechnicus:         1,
	RoleConstructie:       1,
	RoleExpeditie:         1,
	RoleBala:              1,
	RoleMeewerkendVoorman: 0.5,
	RoleTeamleider:        0,
	RoleManager:           0,
	RoleWVB:               0,
}

// Roles lists the known roles in display order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func (r Role) IsValid() bool {
	_, ok := productivity[r]
	return ok
}

// Productivity is the share of available hours counted as productive.
// Unknown roles count as fully indirect.
func (r Role) Productivity() float64 {
	return productivity[r]
}
