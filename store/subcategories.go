package store

import (
	"context"
	"log"

	"github.com/newsdesk/newsdesk/platform"
)

// A Subcategory references its category by id. The reference is not enforced
// client-side: a concurrent category deletion can leave it dangling until the
// next fetch.
type Subcategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

type Subcategories struct {
	state
	client *platform.Client
	list   []Subcategory
}

func NewSubcategories(client *platform.Client) *Subcategories {
	return &Subcategories{client: client}
}

func (s *Subcategories) All() []Subcategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Subcategory{}, s.list...)
}

// ByCategory filters the cache.
func (s *Subcategories) ByCategory(categoryID string) []Subcategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []Subcategory
	for _, subcategory := range s.list {
		if subcategory.CategoryID == categoryID {
			result = append(result, subcategory)
		}
	}
	return result
}

func (s *Subcategories) FetchAll(ctx context.Context, token string) {
	s.begin()

	var list []Subcategory
	err := withToken(s.client, token).From("subcategories").Select("*").Order("name", true).Get(ctx, &list)
	if err != nil {
		log.Printf("fetching subcategories: %v", err)
		s.finish(err)
		return
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	s.finish(nil)
}

func (s *Subcategories) Create(ctx context.Context, token string, name, categoryID string) (*Subcategory, error) {
	s.begin()

	var created = &Subcategory{}
	err := withToken(s.client, token).From("subcategories").Insert(ctx, &Subcategory{Name: name, CategoryID: categoryID}, created)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	s.list = append([]Subcategory{*created}, s.list...)
	s.mu.Unlock()
	s.finish(nil)
	return created, nil
}

func (s *Subcategories) Update(ctx context.Context, token string, id string, name, categoryID string) (*Subcategory, error) {
	s.begin()

	var updated = &Subcategory{}
	err := withToken(s.client, token).From("subcategories").Eq("id", id).Update(ctx, map[string]interface{}{
		"name":        name,
		"category_id": categoryID,
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

func (s *Subcategories) Delete(ctx context.Context, token string, id string) error {
	s.begin()

	err := withToken(s.client, token).From("subcategories").Eq("id", id).Delete(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	var kept = s.list[:0]
	for _, subcategory := range s.list {
		if subcategory.ID != id {
			kept = append(kept, subcategory)
		}
	}
	s.list = kept
	s.mu.Unlock()
	s.finish(nil)
	return nil
}
