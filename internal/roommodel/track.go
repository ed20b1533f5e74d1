package roommodel

// Track is a snapshot of the audio the current round is built around.
// Fields mirror the teacher's SpotifyTrack, renamed to the spec's
// vocabulary and with ReleaseYear added for timeline mode.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	PreviewURL  string `json:"previewUrl"`
	AlbumCover  string `json:"albumCover"`
	ReleaseYear int    `json:"releaseYear"`
}
