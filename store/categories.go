package store

import (
	"context"
	"log"

	"github.com/newsdesk/newsdesk/platform"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Categories struct {
	state
	client *platform.Client
	list   []Category
}

func NewCategories(client *platform.Client) *Categories {
	return &Categories{client: client}
}

// All returns a copy of the cached list.
func (s *Categories) All() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category{}, s.list...)
}

// FetchAll loads every category ordered by name. On failure the previous
// cache stays and the error is only recorded.
func (s *Categories) FetchAll(ctx context.Context, token string) {
	s.begin()

	var list []Category
	err := withToken(s.client, token).From("categories").Select("*").Order("name", true).Get(ctx, &list)
	if err != nil {
		log.Printf("fetching categories: %v", err)
		s.finish(err)
		return
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	s.finish(nil)
}

func (s *Categories) Create(ctx context.Context, token string, name string) (*Category, error) {
	s.begin()

	var created = &Category{}
	err := withToken(s.client, token).From("categories").Insert(ctx, &Category{Name: name}, created)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	s.list = append([]Category{*created}, s.list...)
	s.mu.Unlock()
	s.finish(nil)
	return created, nil
}

func (s *Categories) Update(ctx context.Context, token string, id string, name string) (*Category, error) {
	s.begin()

	var updated = &Category{}
	err := withToken(s.client, token).From("categories").Eq("id", id).Update(ctx, map[string]interface{}{"name": name}, updated)
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

func (s *Categories) Delete(ctx context.Context, token string, id string) error {
	s.begin()

	err := withToken(s.client, token).From("categories").Eq("id", id).Delete(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	var kept = s.list[:0]
	for _, category := range s.list {
		if category.ID != id {
			kept = append(kept, category)
		}
	}
	s.list = kept
	s.mu.Unlock()
	s.finish(nil)
	return nil
}
