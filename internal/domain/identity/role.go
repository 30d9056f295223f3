package identity

// Role is the coarse permission level of a user. There are only two levels:
// admin does everything, staff records and reads but cannot destroy data.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Action is a named capability that can be gated per role
type Action string

const (
	ActionDelete        Action = "delete"
	ActionDeleteAllData Action = "deleteAllData"
	ActionImportData    Action = "importData"
	ActionImportCSV     Action = "importCSV"
	ActionOpnameCreate  Action = "opnameCreate"
	ActionOpnameDelete  Action = "opnameDelete"
)

// restrictedActions are the destructive and bulk actions reserved for admins.
// Anything not listed here is open to every authenticated user.
var restrictedActions = map[Action]struct{}{
	ActionDelete:        {},
	ActionDeleteAllData: {},
	ActionImportData:    {},
	ActionImportCSV:     {},
	ActionOpnameCreate:  {},
	ActionOpnameDelete:  {},
}

// Allows checks whether the role may perform the action
func (r Role) Allows(action Action) bool {
	if _, restricted := restrictedActions[action]; !restricted {
		return true
	}
	return r == RoleAdmin
}

// Capability answers whether the current caller may perform an action.
// Services take it instead of a full user so tests can stub permissions.
type Capability interface {
	IsAllowed(action Action) bool
}

// Actor is the authenticated caller attached to a request context
type Actor struct {
	UserID   string
	Username string
	Role     Role
}

// IsAllowed implements Capability
func (a Actor) IsAllowed(action Action) bool {
	return a.Role.Allows(action)
}
