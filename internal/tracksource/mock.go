package tracksource

import (
	"context"
	"math/rand/v2"
	"sync"

	"beattrack/internal/roommodel"
)

// mockCatalog is the small built-in fallback list the Room Manager uses
// when a Source returns nil, per spec.md 4.5 "Failure semantics".
var mockCatalog = []roommodel.Track{
	{ID: "mock-1", Title: "Billie Jean", Artist: "Michael Jackson", PreviewURL: "https://example.invalid/preview/1.mp3", ReleaseYear: 1982},
	{ID: "mock-2", Title: "Bohemian Rhapsody", Artist: "Queen", PreviewURL: "https://example.invalid/preview/2.mp3", ReleaseYear: 1975},
	{ID: "mock-3", Title: "Like a Prayer", Artist: "Madonna", PreviewURL: "https://example.invalid/preview/3.mp3", ReleaseYear: 1989},
	{ID: "mock-4", Title: "Smells Like Teen Spirit", Artist: "Nirvana", PreviewURL: "https://example.invalid/preview/4.mp3", ReleaseYear: 1991},
	{ID: "mock-5", Title: "Rolling in the Deep", Artist: "Adele", PreviewURL: "https://example.invalid/preview/5.mp3", ReleaseYear: 2010},
	{ID: "mock-6", Title: "Uptown Funk", Artist: "Mark Ronson feat Bruno Mars", PreviewURL: "https://example.invalid/preview/6.mp3", ReleaseYear: 2014},
	{ID: "mock-7", Title: "Blinding Lights", Artist: "The Weeknd", PreviewURL: "https://example.invalid/preview/7.mp3", ReleaseYear: 2019},
	{ID: "mock-8", Title: "Hey Jude", Artist: "The Beatles", PreviewURL: "https://example.invalid/preview/8.mp3", ReleaseYear: 1968},
}

// mockSoundtrackCatalog is the curated soundtrack fallback: Title is the
// film/show name, per spec.md 4.4(c).
var mockSoundtrackCatalog = []roommodel.Track{
	{ID: "mock-ost-1", Title: "Star Wars", Artist: "John Williams", PreviewURL: "https://example.invalid/preview/ost1.mp3", ReleaseYear: 1977},
	{ID: "mock-ost-2", Title: "Game of Thrones", Artist: "Ramin Djawadi", PreviewURL: "https://example.invalid/preview/ost2.mp3", ReleaseYear: 2011},
	{ID: "mock-ost-3", Title: "The Legend of Zelda", Artist: "Koji Kondo", PreviewURL: "https://example.invalid/preview/ost3.mp3", ReleaseYear: 1986},
}

// MockSource is the built-in fallback catalog: a deterministic list, no
// network. It implements CatalogFactory rather than Source directly, so
// every room's fallback gets its own independent session-dedup LRU
// instead of sharing one across the whole process, same as DeezerSource.
type MockSource struct{}

// NewMockSource constructs a ready-to-use MockSource.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// NewSession implements tracksource.CatalogFactory.
func (m *MockSource) NewSession() Source {
	return &mockSession{seen: newIDLRU(MaxSessionLRU)}
}

// mockSession is the per-room, per-game Source over the built-in
// catalog.
type mockSession struct {
	mu   sync.Mutex
	seen *idLRU
}

// GetRandomTrack implements Source against the built-in catalog.
func (s *mockSession) GetRandomTrack(_ context.Context, genre string) (*roommodel.Track, error) {
	catalog := mockCatalog
	if isSoundtrackTheme(genre) {
		catalog = mockSoundtrackCatalog
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]roommodel.Track, 0, len(catalog))
	for _, t := range catalog {
		if !s.seen.Contains(t.ID) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		s.seen.Reset()
		candidates = catalog
	}

	track := candidates[rand.IntN(len(candidates))]
	s.seen.Add(track.ID)
	return &track, nil
}

// ResetSessionState implements Source.
func (s *mockSession) ResetSessionState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen.Reset()
}
