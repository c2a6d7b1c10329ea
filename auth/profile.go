package auth

import "strings"

// Profile is the application-level record associated one-to-one with an auth
// account. Created by a backend-side trigger, mutated through the profiles
// table.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// Name returns "first last", falling back to the id.
func (p Profile) Name() string {
	var name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}
