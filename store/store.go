/*
Package store holds the per-resource state wrappers. Each store mirrors one
backend table into a cached list and exposes fetch, create, update and delete.

The contract is uniform: FetchAll replaces the cache wholesale on success and
records the error without returning it on failure, prior state stays intact.
Writes perform one round-trip, patch the cache only on success, and both
record and return their error, so callers can keep a form open. There is no
optimistic update, no rollback and no retry. A retried create can duplicate a
row.

Every method takes the caller's access token. The backend applies its
row-level security to that token, the stores enforce nothing themselves.
*/
package store

import (
	"sync"

	"github.com/newsdesk/newsdesk/platform"
)

// state is embedded by every store. Its mutex also guards the embedding
// store's cached list. There is one logical writer per store, the flags exist
// for UI consumers.
type state struct {
	mu      sync.Mutex
	loading bool
	err     error
}

func (s *state) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *state) finish(err error) {
	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
}

// Loading reports whether a call is in flight.
func (s *state) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the most recent call, if it failed.
func (s *state) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func withToken(client *platform.Client, token string) *platform.Client {
	if token == "" {
		return client
	}
	return client.WithToken(token)
}
