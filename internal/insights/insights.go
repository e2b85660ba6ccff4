// Package insights asks a text model for the six short captions shown on the
// caption scenes.
package insights

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ivlev/rewind2video/internal/source"
)

const (
	maxCaptionLen = 60
	promptItems   = 20
)

// Placeholders are shown when no usable captions come back.
var Placeholders = source.Captions{
	Hello:          "[Analyzing your music identity...]",
	TopTracks:      "[Top tracks being processed...]",
	TopArtists:     "[Top artists insight pending...]",
	NewDiscoveries: "[Discoveries are loading...]",
	Genres:         "[Genre reflection in progress...]",
	RecentTracks:   "[Your mood is processing...]",
}

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Captions builds the prompt for p, asks gen and parses the answer. It never
// fails: any problem yields Placeholders.
func Captions(ctx context.Context, gen Generator, p *source.Payload) source.Captions {
	if gen == nil {
		return Placeholders
	}
	text, err := gen.Generate(ctx, BuildPrompt(p))
	if err != nil {
		log.Printf("WARN insights: caption generation failed: %v", err)
		return Placeholders
	}
	captions, ok := ParseCaptions(text)
	if !ok {
		log.Printf("WARN insights: model answer had too few usable lines")
	}
	return captions
}

var leadingPunct = regexp.MustCompile(`^[^\p{L}\p{N}_\s]*\s*`)

// ParseCaptions takes the first six non-empty lines of at most 60 characters,
// stripping leading bullets or symbols. With fewer than six lines it returns
// Placeholders and false.
func ParseCaptions(text string) (source.Captions, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) > maxCaptionLen {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 6 {
		return Placeholders, false
	}

	clean := func(s string) string {
		return strings.TrimSpace(leadingPunct.ReplaceAllString(s, ""))
	}
	return source.Captions{
		Hello:          clean(lines[0]),
		TopTracks:      clean(lines[1]),
		TopArtists:     clean(lines[2]),
		NewDiscoveries: clean(lines[3]),
		Genres:         clean(lines[4]),
		RecentTracks:   clean(lines[5]),
	}, true
}

// BuildPrompt renders the roast prompt from the listening summary.
func BuildPrompt(p *source.Payload) string {
	name := p.Profile.DisplayName
	if name == "" {
		name = "Music Fan"
	}

	var discoveries, artists, tracks, genres, recent []string
	for _, a := range head(p.NewDiscoveries) {
		discoveries = appendNonEmpty(discoveries, a.Name)
	}
	for _, a := range head(p.TopArtists.Items) {
		artists = appendNonEmpty(artists, a.Name)
	}
	for _, t := range head(p.TopTracks.Items) {
		tracks = appendNonEmpty(tracks, byline(t))
	}
	for _, g := range head(p.Genres) {
		genres = appendNonEmpty(genres, g.Name)
	}
	for _, h := range head(p.RecentlyPlayed.Items) {
		recent = appendNonEmpty(recent, byline(h.Track))
	}

	var b strings.Builder
	b.WriteString(`As a brutally honest music critic with zero patience, write harshly accurate roasts for this listener.
Be sarcastic and witty, slightly offensive but funny. The lines are captions in a "Your Music Roast" video.
Do not mention years, dates or streaming platforms. Mock their actual tracks, artists, genres and plays.

Each roast must:
- be 3 to 5 words
- use no emojis and no markdown
- sit on its own line

Format strictly like:
Basic taste detected
Really? This garbage?
Taylor? How original

`)
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "New discoveries: %s\n", strings.Join(discoveries, ", "))
	fmt.Fprintf(&b, "Tracks played: %d\n", p.TopTracks.Total)
	fmt.Fprintf(&b, "Artists explored: %d\n", p.TopArtists.Total)
	fmt.Fprintf(&b, "Top artists: %s\n", strings.Join(artists, ", "))
	fmt.Fprintf(&b, "Top tracks: %s\n", strings.Join(tracks, ", "))
	fmt.Fprintf(&b, "Favorite genres: %s\n", strings.Join(genres, ", "))
	fmt.Fprintf(&b, "Most recent plays: %s\n", strings.Join(recent, ", "))
	b.WriteString(`
Write exactly 6 captions, in this order:
1. a sarcastic greeting
2. top tracks mockery
3. artist choice ridicule
4. new discoveries critique
5. genre taste judgment
6. recent plays embarrassment
`)
	return b.String()
}

func head[T any](items []T) []T {
	if len(items) > promptItems {
		return items[:promptItems]
	}
	return items
}

func byline(t source.Track) string {
	artist := t.PrimaryArtist()
	if t.Name == "" || artist == "" {
		return ""
	}
	return t.Name + " by " + artist
}

func appendNonEmpty(list []string, s string) []string {
	if s == "" {
		return list
	}
	return append(list, s)
}
