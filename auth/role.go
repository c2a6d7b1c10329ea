package auth

type Role string

const (
	Admin     Role = "admin"
	Moderator Role = "moderator"
	User      Role = "user"
)

// AllRoles is ordered by privilege, for select boxes.
var AllRoles = []Role{Admin, Moderator, User}

func (r Role) Valid() bool {
	switch r {
	case Admin, Moderator, User:
		return true
	}
	return false
}

// CanManageContent is satisfied by admin and moderator.
func (r Role) CanManageContent() bool {
	return r == Admin || r == Moderator
}

// ManagesUsers is satisfied by admin only.
func (r Role) ManagesUsers() bool {
	return r == Admin
}
