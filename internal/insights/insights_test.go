package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ivlev/rewind2video/internal/source"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func TestParseCaptions(t *testing.T) {
	text := `
1. Basic taste detected
- Really? This garbage?

* Taylor? How original
` + strings.Repeat("x", 61) + `
   Discovering nothing new again
Genres from a cereal box
!!  Sad songs on repeat
Extra line ignored
`
	captions, ok := ParseCaptions(text)
	if !ok {
		t.Fatal("expected successful parse")
	}

	expected := source.Captions{
		Hello:          "1. Basic taste detected",
		TopTracks:      "Really? This garbage?",
		TopArtists:     "Taylor? How original",
		NewDiscoveries: "Discovering nothing new again",
		Genres:         "Genres from a cereal box",
		RecentTracks:   "Sad songs on repeat",
	}
	if captions != expected {
		t.Errorf("unexpected captions:\n got %+v\nwant %+v", captions, expected)
	}
}

func TestParseCaptionsTooFewLines(t *testing.T) {
	captions, ok := ParseCaptions("one\ntwo\nthree\n\n\nfour\nfive")
	if ok {
		t.Error("expected failure with five lines")
	}
	if captions != Placeholders {
		t.Errorf("expected placeholders, got %+v", captions)
	}
}

func TestParseCaptionsCountsCharacters(t *testing.T) {
	// 40 Cyrillic letters are 80 bytes but fit the 60 character limit
	line := strings.Repeat("ж", 40)
	text := "» " + line + "\n" + strings.Repeat(line+"\n", 5) + strings.Repeat("ё", 61)

	captions, ok := ParseCaptions(text)
	if !ok {
		t.Fatal("expected multi-byte lines to be accepted")
	}
	if captions.Hello != line || captions.RecentTracks != line {
		t.Errorf("unexpected captions: %+v", captions)
	}
}

func TestCaptionsFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota")}
	if got := Captions(context.Background(), gen, &source.Payload{}); got != Placeholders {
		t.Errorf("expected placeholders, got %+v", got)
	}
	if got := Captions(context.Background(), nil, &source.Payload{}); got != Placeholders {
		t.Errorf("expected placeholders without generator, got %+v", got)
	}
}

func TestCaptionsUsesGenerator(t *testing.T) {
	gen := &stubGenerator{text: "a\nb\nc\nd\ne\nf"}
	p := &source.Payload{Profile: source.UserProfile{DisplayName: "Ana"}}

	got := Captions(context.Background(), gen, p)
	if got.Hello != "a" || got.RecentTracks != "f" {
		t.Errorf("unexpected captions: %+v", got)
	}
	if !strings.Contains(gen.prompt, "Name: Ana") {
		t.Errorf("prompt should carry the display name:\n%s", gen.prompt)
	}
}

func TestBuildPrompt(t *testing.T) {
	var tracks []source.Track
	for i := 0; i < 30; i++ {
		tracks = append(tracks, source.Track{Name: "Song", Artists: []source.ArtistRef{{Name: "Band"}}})
	}
	tracks = append(tracks[:1], append([]source.Track{{Name: "Lonely"}}, tracks[1:]...)...)

	p := &source.Payload{
		TopTracks:      source.Page[source.Track]{Items: tracks, Total: 31},
		TopArtists:     source.Page[source.Artist]{Items: []source.Artist{{Name: "Band"}}, Total: 1},
		Genres:         []source.GenrePair{{Name: "pop", Count: 3}},
		NewDiscoveries: []source.Artist{{Name: "Fresh"}},
	}

	prompt := BuildPrompt(p)
	for _, want := range []string{"Name: Music Fan", "Tracks played: 31", "Favorite genres: pop", "New discoveries: Fresh", "Top artists: Band"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if n := strings.Count(prompt, "Song by Band"); n != 19 {
		t.Errorf("expected 19 bylines from the first 20 tracks, got %d", n)
	}
	if strings.Contains(prompt, "Lonely") {
		t.Error("tracks without an artist should be skipped")
	}
}

func TestNewGeminiGeneratorNeedsKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), "", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
