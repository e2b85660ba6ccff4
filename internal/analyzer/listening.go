// Package analyzer derives the genre leaderboard and discovery list from raw
// listening data.
package analyzer

import (
	"sort"

	"github.com/ivlev/rewind2video/internal/source"
)

// GenreLimit is how many genres reach the leaderboard.
const GenreLimit = 5

// RankGenres counts genre tags across artists and returns the most frequent
// ones, highest count first. Ties keep the order of first appearance.
func RankGenres(artists []source.Artist, limit int) []source.GenrePair {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if g == "" {
				continue
			}
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	pairs := make([]source.GenrePair, len(order))
	for i, g := range order {
		pairs[i] = source.GenrePair{Name: g, Count: counts[g]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Count > pairs[j].Count
	})

	if limit >= 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// NewDiscoveries returns the short-term artists that are absent from the
// long-term ranking, in short-term order.
func NewDiscoveries(shortTerm, longTerm []source.Artist) []source.Artist {
	known := make(map[string]struct{}, len(longTerm))
	for _, a := range longTerm {
		known[a.ID] = struct{}{}
	}

	fresh := []source.Artist{}
	for _, a := range shortTerm {
		if _, ok := known[a.ID]; !ok {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// Summarize turns raw listening data into a content payload without captions.
func Summarize(l *source.Listening) *source.Payload {
	return &source.Payload{
		Profile:        l.Profile,
		TopTracks:      l.TopTracks,
		TopArtists:     l.TopArtists,
		RecentlyPlayed: l.RecentlyPlayed,
		NewDiscoveries: NewDiscoveries(l.ShortTermArtists.Items, l.TopArtists.Items),
		Genres:         RankGenres(l.TopArtists.Items, GenreLimit),
	}
}
