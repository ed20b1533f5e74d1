package fuzzy

// MatchType classifies what an answer matched, per spec.md 4.1.
type MatchType string

const (
	MatchNone   MatchType = "none"
	MatchTitle  MatchType = "title"
	MatchArtist MatchType = "artist"
	MatchBoth   MatchType = "both"
)

// Threshold is the minimum similarity required for a match, per
// spec.md's FUZZY_THRESHOLD.
const Threshold = 0.75

// Result is the outcome of Check.
type Result struct {
	Correct    bool
	MatchType  MatchType
	Similarity float64
}

var defaultCfg = Config{StripLeadingArticle: true}

// Check fuzzily compares answer against a track's title/artist using the
// decision table from spec.md 4.1.
func Check(answer, title, artist string, acceptArtistOnly, acceptTitleOnly bool) Result {
	na := Normalize(answer, defaultCfg)
	nTitle := Normalize(StripFeaturing(title), defaultCfg)
	nArtist := Normalize(artist, defaultCfg)

	full1 := nTitle + " " + nArtist
	full2 := nArtist + " " + nTitle

	simTitle := Similarity(na, nTitle)
	simArtist := bestArtistSimilarity(na, nArtist, artist)
	simFull1 := Similarity(na, full1)
	simFull2 := Similarity(na, full2)

	simFull := simFull1
	if simFull2 > simFull {
		simFull = simFull2
	}

	maxSim := simTitle
	if simArtist > maxSim {
		maxSim = simArtist
	}
	if simFull > maxSim {
		maxSim = simFull
	}

	titleOK := simTitle >= Threshold
	artistOK := simArtist >= Threshold
	fullOK := simFull >= Threshold

	var mt MatchType
	switch {
	case acceptArtistOnly:
		if artistOK {
			mt = MatchArtist
		} else {
			mt = MatchNone
		}
	case acceptTitleOnly:
		if titleOK {
			mt = MatchTitle
		} else {
			mt = MatchNone
		}
	case fullOK:
		mt = MatchBoth
	case artistOK && !titleOK:
		mt = MatchArtist
	case !artistOK && titleOK:
		mt = MatchTitle
	case artistOK && titleOK:
		// Both matched independently without the concatenation crossing
		// the threshold: still a full match.
		mt = MatchBoth
	default:
		mt = MatchNone
	}

	return Result{
		Correct:    mt != MatchNone,
		MatchType:  mt,
		Similarity: maxSim,
	}
}

// bestArtistSimilarity retries against each individually-split artist
// part when the raw artist string contains multi-artist separators and
// the whole-string comparison falls short.
func bestArtistSimilarity(normalizedAnswer, normalizedArtist, rawArtist string) float64 {
	best := Similarity(normalizedAnswer, normalizedArtist)
	if best >= Threshold {
		return best
	}

	parts := SplitArtists(rawArtist)
	if len(parts) <= 1 {
		return best
	}
	for _, part := range parts {
		s := Similarity(normalizedAnswer, Normalize(part, defaultCfg))
		if s > best {
			best = s
		}
	}
	return best
}
