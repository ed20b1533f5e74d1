package roommanager

import (
	"context"

	"beattrack/internal/roommodel"
	"beattrack/internal/tracksource"
)

// fallbackCatalog is the small built-in mock list the Room Manager
// falls back to when the configured Source returns nil, per spec.md
// 4.4's closing sentence. It is a CatalogFactory, not a Source: every
// Room gets its own session off it (newFallbackSource), so one room's
// fallback dedup can never suppress another room's repeats.
var fallbackCatalog = tracksource.NewMockSource()

// newFallbackSource hands one Room its own fallback Source, scoped the
// same way its primary TrackSource is.
func newFallbackSource() tracksource.Source {
	return fallbackCatalog.NewSession()
}

func fallbackMockTrack(source tracksource.Source, genre string) *roommodel.Track {
	track, _ := source.GetRandomTrack(context.Background(), genre)
	return track
}
