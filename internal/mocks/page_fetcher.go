package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/ghost-api/internal/platform/webpage"
)

// MockPageFetcher implements the service's page fetcher for testing
type MockPageFetcher struct {
	// FetchFn allows test cases to mock the Fetch behavior
	FetchFn func(ctx context.Context, url string) (*webpage.Page, error)

	// Default response values
	Page *webpage.Page
	Err  error

	mu   sync.Mutex
	urls []string
}

// Fetch records the URL and returns the configured response
func (m *MockPageFetcher) Fetch(ctx context.Context, url string) (*webpage.Page, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if m.FetchFn != nil {
		return m.FetchFn(ctx, url)
	}
	return m.Page, m.Err
}

// URLs returns every URL passed to Fetch, in call order
func (m *MockPageFetcher) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}
