package store

import (
	"context"
	"log"
	"sync"

	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
)

type Statistics struct {
	TotalProfiles      int `json:"totalProfiles"`
	TotalCategories    int `json:"totalCategories"`
	TotalSubcategories int `json:"totalSubcategories"`
	TotalNews          int `json:"totalNews"`
	AdminCount         int `json:"adminCount"`
	ModeratorCount     int `json:"moderatorCount"`
	UserCount          int `json:"userCount"`
}

type Stats struct {
	state
	client  *platform.Client
	current Statistics
}

func NewStats(client *platform.Client) *Stats {
	return &Stats{client: client}
}

// Current returns the cached statistics.
func (s *Stats) Current() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Fetch issues the seven count queries concurrently and waits for all of
// them. If any fails, the cache stays and the error is recorded; there is no
// partial update.
func (s *Stats) Fetch(ctx context.Context, token string) {
	s.begin()

	var client = withToken(s.client, token)

	var result Statistics
	var queries = []struct {
		dest  *int
		table string
		role  string
	}{
		{&result.TotalProfiles, "profiles", ""},
		{&result.TotalCategories, "categories", ""},
		{&result.TotalSubcategories, "subcategories", ""},
		{&result.TotalNews, "news", ""},
		{&result.AdminCount, "profiles", "admin"},
		{&result.ModeratorCount, "profiles", "moderator"},
		{&result.UserCount, "profiles", "user"},
	}

	var wg sync.WaitGroup
	var errs = make([]error, len(queries))
	for i, query := range queries {
		wg.Add(1)
		go func(i int, dest *int, table, role string) {
			defer wg.Done()
			var q = client.From(table).Select("*")
			if role != "" {
				q = q.Eq("role", role)
			}
			n, err := q.Count(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			*dest = n
		}(i, query.dest, query.table, query.role)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			log.Printf("fetching statistics: %v", err)
			s.finish(err)
			return
		}
	}

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()
	s.finish(nil)
}

// NewsByCategory reduces all articles into a mapping from category name to
// article count. Articles whose category is gone count as "Unknown".
func (s *Stats) NewsByCategory(ctx context.Context, token string) (map[string]int, error) {

	var client = withToken(s.client, token)

	var articles []struct {
		CategoryID string `json:"category_id"`
	}
	if err := client.From("news").Select("category_id").Order("category_id", true).Get(ctx, &articles); err != nil {
		return nil, err
	}

	var categories []Category
	if err := client.From("categories").Select("id, name").Get(ctx, &categories); err != nil {
		return nil, err
	}

	var names = make(map[string]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	var grouped = make(map[string]int)
	for _, article := range articles {
		name, ok := names[article.CategoryID]
		if !ok {
			name = "Unknown"
		}
		grouped[name]++
	}
	return grouped, nil
}

// RecentProfiles returns the newest profiles.
func (s *Stats) RecentProfiles(ctx context.Context, token string, limit int) ([]auth.Profile, error) {
	var profiles []auth.Profile
	err := withToken(s.client, token).From("profiles").Select("*").Order("id", false).Limit(limit).Get(ctx, &profiles)
	return profiles, err
}

// RecentNews returns the newest articles with their category name joined in.
func (s *Stats) RecentNews(ctx context.Context, token string, limit int) ([]News, error) {
	var news []News
	err := withToken(s.client, token).From("news").Select("*, categories(name)").Order("created_at", false).Limit(limit).Get(ctx, &news)
	return news, err
}
