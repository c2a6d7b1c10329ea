package store

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
)

// ErrNoServiceKey is returned when user management is attempted without the
// service-role key being configured.
var ErrNoServiceKey = errors.New("service role key not configured")

var ErrUserNotFound = errors.New("user not found")

// UserWithProfile joins an auth account with its profile. It exists only as a
// response shape, the backend stores no such entity.
type UserWithProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      auth.Role `json:"role,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// Users manages accounts through the backend's admin API. It holds the
// service-role client, so it lives server-side only. A nil admin client means
// the key is not configured and every account operation fails with
// ErrNoServiceKey.
type Users struct {
	state
	admin *platform.Client // service-role key, may be nil
	list  []UserWithProfile
}

func NewUsers(admin *platform.Client) *Users {
	return &Users{admin: admin}
}

func (s *Users) All() []UserWithProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UserWithProfile{}, s.list...)
}

// FetchAll joins all profiles with the accounts of the admin listing. If the
// listing fails, it degrades to profile-only rows with a placeholder email
// rather than failing the whole view.
func (s *Users) FetchAll(ctx context.Context) ([]UserWithProfile, error) {
	if s.admin == nil {
		s.finish(ErrNoServiceKey)
		return nil, ErrNoServiceKey
	}
	s.begin()

	var profiles []auth.Profile
	err := s.admin.From("profiles").Select("id, role, first_name, last_name").Order("first_name", true).Get(ctx, &profiles)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	var accounts = make(map[string]platform.User)
	if listed, err := s.admin.AdminListUsers(ctx); err == nil {
		for _, account := range listed {
			accounts[account.ID] = account
		}
	} else {
		log.Printf("listing accounts failed, degrading to profiles only: %v", err)
	}

	var users = make([]UserWithProfile, 0, len(profiles))
	for _, profile := range profiles {
		var role = profile.Role
		if role == "" {
			role = auth.User
		}
		var user = UserWithProfile{
			ID:        profile.ID,
			Email:     "Email not available",
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Role:      role,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if account, ok := accounts[profile.ID]; ok {
			user.Email = account.Email
			user.CreatedAt = account.CreatedAt
		}
		users = append(users, user)
	}

	s.mu.Lock()
	s.list = users
	s.mu.Unlock()
	s.finish(nil)
	return users, nil
}

// Create provisions an auth account and patches the trigger-created profile.
// If the patch ultimately fails, the account is deleted again, best effort,
// so no half-created user lingers.
func (s *Users) Create(ctx context.Context, email, password, firstName, lastName string, role auth.Role) (*UserWithProfile, error) {
	if s.admin == nil {
		s.finish(ErrNoServiceKey)
		return nil, ErrNoServiceKey
	}
	s.begin()

	if role == "" {
		role = auth.User
	}

	account, err := s.admin.AdminCreateUser(ctx, email, password, true)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	err = auth.PatchProvisionedProfile(ctx, s.admin, account.ID, &auth.Profile{
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	})
	if err != nil {
		if deleteErr := s.admin.AdminDeleteUser(ctx, account.ID); deleteErr != nil {
			log.Printf("cleaning up account %s after failed profile update: %v", account.ID, deleteErr)
		}
		s.finish(err)
		return nil, err
	}

	var user = &UserWithProfile{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		CreatedAt: account.CreatedAt,
	}

	s.mu.Lock()
	s.list = append([]UserWithProfile{*user}, s.list...)
	s.mu.Unlock()
	s.finish(nil)
	return user, nil
}

// Delete removes the auth account, which cascades to the profile. It returns
// ErrUserNotFound if no profile with that id exists.
func (s *Users) Delete(ctx context.Context, id string) (*auth.Profile, error) {
	if s.admin == nil {
		s.finish(ErrNoServiceKey)
		return nil, ErrNoServiceKey
	}
	s.begin()

	var profile = &auth.Profile{}
	found, err := s.admin.From("profiles").Select("id, first_name, last_name").Eq("id", id).MaybeSingle(ctx, profile)
	if err != nil {
		s.finish(err)
		return nil, err
	}
	if !found {
		s.finish(ErrUserNotFound)
		return nil, ErrUserNotFound
	}

	if err := s.admin.AdminDeleteUser(ctx, id); err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	var kept = s.list[:0]
	for _, user := range s.list {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	s.list = kept
	s.mu.Unlock()
	s.finish(nil)
	return profile, nil
}
