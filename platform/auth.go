package platform

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is an account of the auth service.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Session is what the auth service hands out on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// TokenClaims are the claims of an access token, read without verifying the
// signature. Verification is the backend's job, these are for local
// bookkeeping only.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

func (s *Session) Claims() (*TokenClaims, error) {

	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, &claims); err != nil {
		return nil, err
	}

	var result = &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		result.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	return result, nil
}

// Expired reports whether the access token has (nearly) expired.
func (s *Session) Expired() bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(claims.ExpiresAt.Add(-30 * time.Second))
}

// SignIn performs a password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {

	var params = url.Values{}
	params.Set("grant_type", "password")

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token", params, nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session = &Session{}
	return session, decode(resp, session)
}

// SignUp registers a new account. Depending on the backend's email
// confirmation setting, the returned session may lack tokens.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session = &Session{}
	return session, decode(resp, session)
}

// SignOut revokes the token's session on the backend.
func (c *Client) SignOut(ctx context.Context, token string) error {
	resp, err := c.WithToken(token).do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// GetUser fetches the account belonging to the token. This is a fresh
// round-trip, not a cache read, so a revoked session fails here.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	resp, err := c.WithToken(token).do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var user = &User{}
	return user, decode(resp, user)
}
