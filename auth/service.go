package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/newsdesk/newsdesk/platform"
)

var ErrLogin = errors.New("wrong email address or password")

var ErrSessionExpired = errors.New("session expired")

// Service runs the sign-in and sign-up flows against the backend.
type Service struct {
	Client *platform.Client // anon key

	// BootstrapAdmin makes the first sign-in without a profile row create an
	// admin profile. This is for setting up the first administrator of a
	// fresh project and should stay off afterwards.
	BootstrapAdmin bool
}

// SignIn checks the credentials, then fetches the profile with the fresh
// token so row-level security applies. A missing or unreadable profile never
// fails the sign-in: see bootstrapProfile.
func (s *Service) SignIn(ctx context.Context, email, password string) (*platform.Session, *Profile, error) {

	session, err := s.Client.SignIn(ctx, email, password)
	if err != nil {
		var e *platform.Error
		if errors.As(err, &e) && e.Status < 500 {
			return nil, nil, ErrLogin
		}
		return nil, nil, err
	}

	profile, found, err := s.fetchProfile(ctx, session)
	if err != nil || !found {
		if err != nil {
			log.Printf("sign-in: fetching profile of %s: %v", session.User.ID, err)
		}
		profile = s.bootstrapProfile(ctx, session)
	}

	return session, profile, nil
}

// SignUp registers an account, then waits for the trigger-provisioned profile
// row and patches the names onto it. A failing patch is logged but does not
// undo the sign-up.
func (s *Service) SignUp(ctx context.Context, email, password, firstName, lastName string) (*platform.Session, error) {

	session, err := s.Client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if session.User.ID != "" {
		client := s.Client
		if session.AccessToken != "" {
			client = client.WithToken(session.AccessToken)
		}
		if err := PatchProvisionedProfile(ctx, client, session.User.ID, &Profile{
			FirstName: firstName,
			LastName:  lastName,
			Role:      User,
		}); err != nil {
			log.Printf("sign-up: updating profile of %s: %v", session.User.ID, err)
		}
	}

	return session, nil
}

// CurrentUser resolves a token to its account and profile, both freshly
// fetched. A missing profile yields a minimal "user" profile, it is not an
// error.
func (s *Service) CurrentUser(ctx context.Context, token string) (*platform.User, *Profile, error) {

	// a token known to be expired saves the round-trip
	if (&platform.Session{AccessToken: token}).Expired() {
		return nil, nil, ErrSessionExpired
	}

	user, err := s.Client.GetUser(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	var profile = &Profile{}
	found, err := s.Client.WithToken(token).From("profiles").Select("*").Eq("id", user.ID).MaybeSingle(ctx, profile)
	if err != nil || !found {
		if err != nil {
			log.Printf("fetching profile of %s: %v", user.ID, err)
		}
		profile = &Profile{ID: user.ID, Role: User}
	}

	return user, profile, nil
}

func (s *Service) fetchProfile(ctx context.Context, session *platform.Session) (*Profile, bool, error) {
	var profile = &Profile{}
	found, err := s.Client.WithToken(session.AccessToken).From("profiles").Select("*").Eq("id", session.User.ID).MaybeSingle(ctx, profile)
	return profile, found, err
}

// bootstrapProfile decides what to do when a signed-in account has no
// readable profile. With BootstrapAdmin set, an admin profile is created and
// the event is logged. Otherwise the local profile gets the lowest role, so a
// broken profiles table can never silently elevate anyone.
func (s *Service) bootstrapProfile(ctx context.Context, session *platform.Session) *Profile {

	if !s.BootstrapAdmin {
		return &Profile{ID: session.User.ID, Role: User}
	}

	var profile = &Profile{}
	err := s.Client.WithToken(session.AccessToken).From("profiles").Insert(ctx, &Profile{
		ID:   session.User.ID,
		Role: Admin,
	}, profile)
	if err != nil {
		log.Printf("bootstrap: creating admin profile for %s: %v", session.User.ID, err)
		return &Profile{ID: session.User.ID, Role: Admin}
	}

	log.Printf("bootstrap: created admin profile for %s, consider disabling bootstrap mode now", session.User.Email)
	return profile
}

// PatchProvisionedProfile updates a profile row which a backend trigger is
// provisioning asynchronously. It polls with bounded backoff instead of
// assuming a fixed delay suffices.
func PatchProvisionedProfile(ctx context.Context, client *platform.Client, id string, patch *Profile) error {

	var err error
	var delay = 200 * time.Millisecond

	for attempt := 0; attempt < 5; attempt++ {

		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if delay *= 2; delay > time.Second {
				delay = time.Second
			}
		}

		var found bool
		found, err = client.From("profiles").Select("id").Eq("id", id).MaybeSingle(ctx, &struct {
			ID string `json:"id"`
		}{})
		if err != nil {
			continue
		}
		if !found {
			err = errors.New("profile row not provisioned yet")
			continue
		}

		return client.From("profiles").Eq("id", id).Update(ctx, map[string]interface{}{
			"first_name": patch.FirstName,
			"last_name":  patch.LastName,
			"role":       patch.Role,
		}, nil)
	}

	return err
}
