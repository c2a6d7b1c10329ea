package store

import (
	"context"
	"log"

	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
)

type Profiles struct {
	state
	client *platform.Client
	list   []auth.Profile
}

func NewProfiles(client *platform.Client) *Profiles {
	return &Profiles{client: client}
}

func (s *Profiles) All() []auth.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]auth.Profile{}, s.list...)
}

func (s *Profiles) FetchAll(ctx context.Context, token string) {
	s.begin()

	var list []auth.Profile
	err := withToken(s.client, token).From("profiles").Select("*").Order("first_name", true).Get(ctx, &list)
	if err != nil {
		log.Printf("fetching profiles: %v", err)
		s.finish(err)
		return
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	s.finish(nil)
}

// UpdateRole changes only the role of one profile.
func (s *Profiles) UpdateRole(ctx context.Context, token string, id string, role auth.Role) (*auth.Profile, error) {
	s.begin()

	var updated = &auth.Profile{}
	err := withToken(s.client, token).From("profiles").Eq("id", id).Update(ctx, map[string]interface{}{
		"role": role,
	}, updated)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Role = updated.Role
			break
		}
	}
	s.mu.Unlock()
	s.finish(nil)
	return updated, nil
}

// Update patches name and role of one profile.
func (s *Profiles) Update(ctx context.Context, token string, id string, patch auth.Profile) (*auth.Profile, error) {
	s.begin()

	var updated = &auth.Profile{}
	err := withToken(s.client, token).From("profiles").Eq("id", id).Update(ctx, map[string]interface{}{
		"first_name": patch.FirstName,
		"last_name":  patch.LastName,
		"role":       patch.Role,
	}, updated)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	s.finish(nil)
	return updated, nil
}
