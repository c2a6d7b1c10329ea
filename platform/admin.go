package platform

import (
	"context"
	"net/http"
)

// The admin API requires a client created with the service-role key. That key
// must never reach a browser, so these methods are only called from server
// handlers and the init command.

// AdminListUsers returns all auth accounts.
func (c *Client) AdminListUsers(ctx context.Context) ([]User, error) {

	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Users []User `json:"users"`
	}
	if err := decode(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// AdminCreateUser creates an auth account. With confirm set, the address is
// marked confirmed so the user can sign in right away.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, confirm bool) (*User, error) {

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", nil, nil, map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": confirm,
	})
	if err != nil {
		return nil, err
	}

	var user = &User{}
	return user, decode(resp, user)
}

// AdminDeleteUser deletes an auth account. The backend cascades the deletion
// to the profile row.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, nil, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
