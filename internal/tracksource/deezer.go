package tracksource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"beattrack/internal/fuzzy"
	"beattrack/internal/roommodel"
)

const (
	deezerBaseURL           = "https://api.deezer.com"
	artistSimilarityFloor   = 0.8
	deezerRequestTimeout    = 8 * time.Second
	maxCandidatePoolPerCall = 40
)

// genreQueries biases the Deezer search toward artists/eras associated
// with each selectable genre, since Deezer has no stable genre facet on
// the public search endpoint.
var genreQueries = map[string][]string{
	"pop":     {"pop hits", "dance pop"},
	"rock":    {"classic rock", "rock anthems"},
	"hiphop":  {"hip hop classics", "rap hits"},
	"80s":     {"80s hits"},
	"90s":     {"90s hits"},
	"2000s":   {"2000s hits"},
	"french":  {"chanson francaise", "variete francaise"},
	"electro": {"electro house"},
}

var soundtrackQueries = map[string][]string{
	"movie soundtracks": {"movie soundtrack", "film score"},
	"tv themes":         {"tv theme song"},
	"video game ost":    {"video game soundtrack"},
}

var defaultQueries = []string{"top hits", "greatest hits"}

type deezerTrack struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Artist  struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title string `json:"title"`
		Cover string `json:"cover_big"`
	} `json:"album"`
}

type deezerSearchResponse struct {
	Data []deezerTrack `json:"data"`
}

// DeezerSource is the shared, process-wide Deezer catalog client: one
// HTTP client and one process-wide dedup LRU, queried on behalf of
// every room. It implements CatalogFactory rather than Source directly
// — per spec.md 9, the per-game session dedup is a distinct concern
// from this catalog's own bounded process-wide dedup, so each room asks
// it for an independent deezerSession via NewSession instead of sharing
// one Source across the whole process.
type DeezerSource struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	global *idLRU
}

// NewDeezerSource constructs a ready-to-use DeezerSource querying the
// public Deezer endpoint. baseURL overrides deezerBaseURL when
// non-empty, the way cmd/server's --track-source-base-url flag lets an
// operator point the catalog client at a proxy or test double.
func NewDeezerSource(baseURL string) *DeezerSource {
	if baseURL == "" {
		baseURL = deezerBaseURL
	}
	return &DeezerSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: deezerRequestTimeout},
		global:     newIDLRU(5000),
	}
}

// NewSession implements tracksource.CatalogFactory: every room gets its
// own deezerSession wrapping this shared catalog client, with its own
// independent session-dedup LRU.
func (d *DeezerSource) NewSession() Source {
	return &deezerSession{catalog: d, sessionID: newIDLRU(MaxSessionLRU)}
}

// deezerSession is the per-room, per-game Source: one session-dedup LRU
// over a shared DeezerSource catalog client.
type deezerSession struct {
	catalog   *DeezerSource
	sessionID *idLRU
}

// GetRandomTrack implements Source.
func (s *deezerSession) GetRandomTrack(ctx context.Context, genre string) (*roommodel.Track, error) {
	return s.catalog.fetch(ctx, genre, s.sessionID)
}

// ResetSessionState implements Source: clears only this session's dedup
// LRU, leaving the catalog's process-wide LRU and every other room's
// session untouched.
func (s *deezerSession) ResetSessionState() {
	s.sessionID.Reset()
}

// fetch queries Deezer's search endpoint with a query biased toward the
// requested genre or soundtrack theme, filters out tracks without a
// preview URL and tracks seen recently in the caller's session or
// process-wide, and returns a uniformly random survivor.
func (d *DeezerSource) fetch(ctx context.Context, genre string, sessionID *idLRU) (*roommodel.Track, error) {
	queries := queriesFor(genre)
	soundtrack := isSoundtrackTheme(genre)

	var pool []deezerTrack
	for _, q := range queries {
		batch, err := d.search(ctx, q)
		if err != nil {
			log.Printf("tracksource: deezer search %q: %v", q, err)
			continue
		}
		pool = append(pool, batch...)
		if len(pool) >= maxCandidatePoolPerCall {
			break
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	candidates := make([]deezerTrack, 0, len(pool))
	for _, t := range pool {
		if t.Preview == "" {
			continue
		}
		id := fmt.Sprintf("%d", t.ID)
		if sessionID.Contains(id) || d.global.Contains(id) {
			continue
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	filtered := filterByArtistBias(candidates, genre, soundtrack)
	if len(filtered) == 0 {
		filtered = candidates
	}

	chosen := filtered[rand.IntN(len(filtered))]
	id := fmt.Sprintf("%d", chosen.ID)
	sessionID.Add(id)
	d.global.Add(id)

	return &roommodel.Track{
		ID:          id,
		Title:       chosen.Title,
		Artist:      chosen.Artist.Name,
		PreviewURL:  chosen.Preview,
		AlbumCover:  chosen.Album.Cover,
		ReleaseYear: 0,
	}, nil
}

func (d *DeezerSource) search(ctx context.Context, query string) ([]deezerTrack, error) {
	apiURL := fmt.Sprintf("%s/search?q=%s&limit=25", d.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out deezerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func queriesFor(genre string) []string {
	norm := normalizeGenre(genre)
	if qs, ok := soundtrackQueries[norm]; ok {
		return qs
	}
	if qs, ok := genreQueries[norm]; ok {
		return qs
	}
	return defaultQueries
}

// filterByArtistBias keeps only candidates whose artist name is similar
// enough (>= artistSimilarityFloor) to the genre's expected artist set,
// per spec.md 9's "post-filter by artist-name similarity (>=0.8) against
// the requested genre's known artist list" design note. Soundtrack
// themes skip this filter since the curated query already constrains
// results to scores.
func filterByArtistBias(candidates []deezerTrack, genre string, soundtrack bool) []deezerTrack {
	if soundtrack {
		return candidates
	}
	known, ok := genreArtists[normalizeGenre(genre)]
	if !ok {
		return candidates
	}

	out := make([]deezerTrack, 0, len(candidates))
	for _, c := range candidates {
		for _, name := range known {
			if fuzzy.Similarity(c.Artist.Name, name) >= artistSimilarityFloor {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// genreArtists seeds the artist-similarity post-filter for genres where
// a handful of well-known names meaningfully narrow the search results.
var genreArtists = map[string][]string{
	"rock":   {"Queen", "Nirvana", "AC/DC", "Led Zeppelin", "The Rolling Stones"},
	"80s":    {"Michael Jackson", "Madonna", "Prince", "Whitney Houston"},
	"french": {"Edith Piaf", "Stromae", "Indochine", "Johnny Hallyday"},
}
