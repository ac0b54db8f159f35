package roles

// Role is the access level carried in the JWT.
type Role string

const (
	User  Role = "user"
	Admin Role = "admin"
)

// Permission names a group of operations a role may perform.
type Permission string

const (
	ManageEmployees Permission = "manage_employees"
	ManageAssets    Permission = "manage_assets"
	ImportExport    Permission = "import_export"
	ChangeStatus    Permission = "change_status"
	AssignUnassign  Permission = "assign_unassign"
	ViewAll         Permission = "view_all"
	ManageWorkspace Permission = "manage_workspace"
)

var permissions = map[Role]map[Permission]bool{
	Admin: {
		ManageEmployees: true,
		ManageAssets:    true,
		ImportExport:    true,
		ChangeStatus:    true,
		AssignUnassign:  true,
		ViewAll:         true,
		ManageWorkspace: true,
	},
	User: {
		AssignUnassign: true,
		ViewAll:        true,
	},
}

// Can reports whether the role grants the permission. Unknown roles grant nothing.
func (r Role) Can(p Permission) bool {
	return permissions[r][p]
}

func (r Role) IsValid() bool {
	switch r {
	case User, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Permissions lists what the role grants, in a stable order.
func (r Role) Permissions() []Permission {
	var granted []Permission
	for _, p := range []Permission{ManageEmployees, ManageAssets, ImportExport, ChangeStatus, AssignUnassign, ViewAll, ManageWorkspace} {
		if r.Can(p) {
			granted = append(granted, p)
		}
	}
	return granted
}
