package store

import (
	"context"
	"log"

	"github.com/newsdesk/newsdesk/platform"
)

type News struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Content       string `json:"content"` // HTML
	Image         string `json:"image,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
	SubcategoryID string `json:"subcategory_id,omitempty"`

	// Category is populated by queries embedding the categories relation.
	Category *struct {
		Name string `json:"name"`
	} `json:"categories,omitempty"`
}

func (n *News) CategoryName() string {
	if n.Category == nil {
		return ""
	}
	return n.Category.Name
}

type NewsStore struct {
	state
	client *platform.Client
	list   []News
}

func NewNews(client *platform.Client) *NewsStore {
	return &NewsStore{client: client}
}

func (s *NewsStore) All() []News {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]News{}, s.list...)
}

func (s *NewsStore) Get(id string) (News, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.list {
		if item.ID == id {
			return item, true
		}
	}
	return News{}, false
}

// FetchAll loads every article, newest first, with the category name joined
// in.
func (s *NewsStore) FetchAll(ctx context.Context, token string) {
	s.begin()

	var list []News
	err := withToken(s.client, token).From("news").Select("*, categories(name)").Order("created_at", false).Get(ctx, &list)
	if err != nil {
		log.Printf("fetching news: %v", err)
		s.finish(err)
		return
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	s.finish(nil)
}

func (s *NewsStore) Create(ctx context.Context, token string, item News) (*News, error) {
	s.begin()

	item.ID = ""
	item.CreatedAt = ""
	item.Category = nil

	var created = &News{}
	err := withToken(s.client, token).From("news").Insert(ctx, &item, created)
	if err != nil {
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	s.list = append([]News{*created}, s.list...)
	s.mu.Unlock()
	s.finish(nil)
	return created, nil
}

func (s *NewsStore) Update(ctx context.Context, token string, id string, item News) (*News, error) {
	s.begin()

	var updated = &News{}
	err := withToken(s.client, token).From("news").Eq("id", id).Update(ctx, map[string]interface{}{
		"title":          item.Title,
		"content":        item.Content,
		"image":          item.Image,
		"category_id":    emptyToNull(item.CategoryID),
		"subcategory_id": emptyToNull(item.SubcategoryID),
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

func (s *NewsStore) Delete(ctx context.Context, token string, id string) error {
	s.begin()

	err := withToken(s.client, token).From("news").Eq("id", id).Delete(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	var kept = s.list[:0]
	for _, item := range s.list {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.list = kept
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

// emptyToNull maps a cleared reference to SQL NULL instead of an empty uuid.
func emptyToNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
