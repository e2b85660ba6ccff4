package effects

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/director"
	"github.com/ivlev/rewind2video/internal/renderer"
	"github.com/ivlev/rewind2video/internal/source"
)

func newComposer(t *testing.T, cfg config.Config) *Composer {
	t.Helper()
	c, err := NewComposer(cfg, Scenes())
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return c
}

func samplePayload() *source.Payload {
	track := func(id, name, artist string) source.Track {
		return source.Track{
			ID:      id,
			Name:    name,
			Artists: []source.ArtistRef{{ID: "a-" + id, Name: artist}},
			Album:   source.Album{Images: []source.Image{{URL: id + ".jpg"}}},
		}
	}
	return &source.Payload{
		Profile: source.UserProfile{DisplayName: "Ana", Images: []source.Image{{URL: "me.jpg"}}},
		TopTracks: source.Page[source.Track]{Items: []source.Track{
			track("t1", "One", "Band"), track("t2", "Two", "Band"), track("t3", "Three", "Duo"), track("t4", "Four", "Solo"),
		}},
		TopArtists: source.Page[source.Artist]{Items: []source.Artist{
			{ID: "a1", Name: "Band", Genres: []string{"pop"}},
			{ID: "a2", Name: "Duo"},
		}},
		RecentlyPlayed: source.Page[source.PlayHistory]{Items: []source.PlayHistory{
			{Track: track("t5", "Five", "Band")},
		}},
		NewDiscoveries: []source.Artist{{ID: "a9", Name: "Fresh"}},
		Genres:         []source.GenrePair{{Name: "pop", Count: 7}, {Name: "rock", Count: 3}},
		Captions:       source.Captions{Hello: "Basic taste detected"},
		Assets:         source.Assets{Logo: "/spotify-logo.png", BrandLogo: "/forge-logo.png"},
	}
}

func findElement(t *testing.T, elements []Element, id string) Element {
	t.Helper()
	for _, e := range elements {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("element %q not found", id)
	return Element{}
}

// frameAt returns the global frame for a segment-local offset.
func frameAt(c *Composer, segment, offset int) int {
	return c.Timeline().Start(segment) + offset
}

func TestScenesCatalogue(t *testing.T) {
	scenes := Scenes()
	if len(scenes) != 13 {
		t.Fatalf("expected 13 scenes, got %d", len(scenes))
	}
	seen := make(map[string]bool)
	for _, s := range scenes {
		if seen[s.Name] {
			t.Errorf("duplicate scene %q", s.Name)
		}
		seen[s.Name] = true
	}

	c := newComposer(t, config.Default())
	if overruns := c.StaggerOverruns(); len(overruns) != 0 {
		t.Errorf("default timeline should fit every list item: %v", overruns)
	}
}

func TestSceneShadowColours(t *testing.T) {
	c := newComposer(t, config.Default())
	p := samplePayload()

	tests := []struct {
		segment int
		id      string
		want    string
	}{
		{0, "profile-image", "#1db954"},
		{1, "title", "#191414"},
		{2, "title", "#191919"},
		{3, "heading", "#000000"},
		{4, "title", "#1db954"},
		{5, "heading", "#1db954"},
		{6, "title", "#1db954"},
		{7, "heading", "#1db954"},
		{8, "title", "#1db954"},
		{9, "heading", "#1db954"},
		{10, "title", "#1db954"},
		{11, "heading", "#1db954"},
		{12, "brand-logo", "#1db954"},
	}

	for _, tt := range tests {
		st := c.Render(frameAt(c, tt.segment, 40), p)
		if got := findElement(t, st.Elements, tt.id).ShadowColor; got != tt.want {
			t.Errorf("%s/%s: shadow %s, want %s", st.Scene, tt.id, got, tt.want)
		}
	}
}

func TestDefaultEasingFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewind.yaml")
	if err := os.WriteFile(path, []byte("easing: linear\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	linear := newComposer(t, cfg)
	smooth := newComposer(t, config.Default())
	p := samplePayload()

	// intro title slides 50 -> 0 over scaled frames 0..45
	y := findElement(t, linear.Render(15, p).Elements, "title").Props[string(Y)]
	if math.Abs(y-50.0*2/3) > 1e-9 {
		t.Errorf("linear easing: expected y %f, got %f", 50.0*2/3, y)
	}
	if ys := findElement(t, smooth.Render(15, p).Elements, "title").Props[string(Y)]; math.Abs(ys-y) < 1e-6 {
		t.Errorf("smooth and linear defaults should differ at offset 15, both %f", y)
	}

	// channels that name a curve keep it
	frame := frameAt(linear, 1, 10)
	a := findElement(t, linear.Render(frame, p).Elements, "title").Props[string(Opacity)]
	b := findElement(t, smooth.Render(frame, p).Elements, "title").Props[string(Opacity)]
	if a != b {
		t.Errorf("explicit elastic opacity changed with default easing: %f vs %f", a, b)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	c := newComposer(t, config.Default())
	p := samplePayload()

	for frame := 0; frame <= c.Timeline().LastFrame(); frame += 7 {
		a := c.Render(frame, p)
		b := c.Render(frame, p)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("frame %d rendered differently", frame)
		}
	}

	// out of order sampling gives the same state
	later := c.Render(900, p)
	c.Render(10, p)
	if again := c.Render(900, p); !reflect.DeepEqual(later, again) {
		t.Error("frame 900 depends on render order")
	}
}

func TestRenderEmptyPayload(t *testing.T) {
	c := newComposer(t, config.Default())
	for _, p := range []*source.Payload{nil, {}} {
		for frame := 0; frame <= c.Timeline().LastFrame()+5; frame++ {
			st := c.Render(frame, p)
			if len(st.Items) != 0 {
				t.Fatalf("frame %d: expected no list items, got %d", frame, len(st.Items))
			}
			if len(st.Elements) == 0 {
				t.Fatalf("frame %d: scene %s rendered nothing", frame, st.Scene)
			}
		}
	}
}

func TestShortListRendersWhatExists(t *testing.T) {
	c := newComposer(t, config.Default())
	p := samplePayload()
	p.TopTracks.Items = p.TopTracks.Items[:1]

	st := c.Render(frameAt(c, 3, 100), p)
	if st.Scene != "top-tracks" {
		t.Fatalf("expected top-tracks scene, got %s", st.Scene)
	}
	if len(st.Items) != 1 {
		t.Fatalf("expected exactly 1 item, got %d", len(st.Items))
	}
	if name := findElement(t, st.Items[0].Elements, "name"); name.Text != "One" {
		t.Errorf("unexpected item name %q", name.Text)
	}
}

func TestListLimit(t *testing.T) {
	c := newComposer(t, config.Default())
	st := c.Render(frameAt(c, 3, 100), samplePayload())
	if len(st.Items) != 3 {
		t.Fatalf("expected 3 of 4 tracks, got %d", len(st.Items))
	}
	for i, item := range st.Items {
		if item.Index != i || item.Start != 15+i*20 {
			t.Errorf("item %d: index %d start %d", i, item.Index, item.Start)
		}
	}
	img := findElement(t, st.Items[2].Elements, "image")
	if img.Src != "t3.jpg" {
		t.Errorf("unexpected image %q", img.Src)
	}
}

func TestGenreCountUp(t *testing.T) {
	tests := []struct {
		name  string
		tempo float64
	}{
		{"global tempo", 1.5},
		{"unscaled", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Tempo = tt.tempo
			c := newComposer(t, cfg)
			p := &source.Payload{Genres: []source.GenrePair{{Name: "pop", Count: 7}}}

			start := 15 // first item
			windowStart := tt.tempo * float64(start+10)
			windowEnd := tt.tempo * float64(start+40)

			prev := -1.0
			for off := 0; off < c.Timeline().Length(11); off++ {
				st := c.Render(frameAt(c, 11, off), p)
				count := findElement(t, st.Items[0].Elements, "count").Props[string(Count)]

				if count < prev {
					t.Fatalf("offset %d: count went down from %.0f to %.0f", off, prev, count)
				}
				if float64(off) <= windowStart && count != 0 {
					t.Errorf("offset %d: expected 0 before the window, got %.0f", off, count)
				}
				if float64(off) >= windowEnd && count != 7 {
					t.Errorf("offset %d: expected 7 after the window, got %.0f", off, count)
				}
				if count != math.Round(count) {
					t.Errorf("offset %d: count %.3f is not an integer", off, count)
				}
				prev = count
			}
		})
	}
}

func TestGenreAlternatingEntrance(t *testing.T) {
	c := newComposer(t, config.Default())
	st := c.Render(frameAt(c, 11, 0), samplePayload())
	if len(st.Items) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(st.Items))
	}
	left := findElement(t, st.Items[0].Elements, "card").Props[string(X)]
	right := findElement(t, st.Items[1].Elements, "card").Props[string(X)]
	if left > -35 || right < 35 {
		t.Errorf("expected items to enter from opposite sides, got %.2f and %.2f", left, right)
	}
}

func TestCaptionsRenderedVerbatim(t *testing.T) {
	c := newComposer(t, config.Default())
	frame := frameAt(c, 1, 50)

	p := samplePayload()
	p.Captions.Hello = "[Analyzing your music identity...]"
	if got := findElement(t, c.Render(frame, p).Elements, "title").Text; got != p.Captions.Hello {
		t.Errorf("placeholder altered: %q", got)
	}

	p.Captions = source.Captions{}
	if got := findElement(t, c.Render(frame, p).Elements, "title").Text; got != "Hello, Spotify User!" {
		t.Errorf("expected fallback title, got %q", got)
	}
}

func TestSpringDrivenScale(t *testing.T) {
	c := newComposer(t, config.Default())
	p := samplePayload()

	first := findElement(t, c.Render(frameAt(c, 6, 0), p).Elements, "title").Props[string(Scale)]
	if first != 0.5 {
		t.Errorf("spring scale should start clamped at 0.5, got %f", first)
	}

	peak := 0.0
	for off := 0; off < 138; off++ {
		v := findElement(t, c.Render(frameAt(c, 6, off), p).Elements, "title").Props[string(Scale)]
		if v < 0.5 || v > 1.1 {
			t.Fatalf("offset %d: scale %f outside [0.5, 1.1]", off, v)
		}
		peak = math.Max(peak, v)
	}
	if peak <= 1 {
		t.Errorf("expected spring overshoot, peak %f", peak)
	}
}

func TestClosingScene(t *testing.T) {
	c := newComposer(t, config.Default())
	p := samplePayload()

	st := c.Render(1794, p)
	if st.Segment != 12 || st.Offset != 138 || st.Scene != "closing" {
		t.Fatalf("unexpected state header: %d/%d/%s", st.Segment, st.Offset, st.Scene)
	}

	if bg := findElement(t, c.Render(frameAt(c, 12, 0), p).Elements, "background"); bg.Color != "#000000" {
		t.Errorf("expected black background at start, got %s", bg.Color)
	}
	if bg := findElement(t, st.Elements, "background"); bg.Color != "#1db954" {
		t.Errorf("expected green background at end, got %s", bg.Color)
	}

	// the second line waits 20 frames for its spring
	early := c.Render(frameAt(c, 12, 10), p)
	if op := findElement(t, early.Elements, "brand").Props[string(Opacity)]; op != 0 {
		t.Errorf("second line visible too early: %f", op)
	}
	if op := findElement(t, early.Elements, "made-with").Props[string(Opacity)]; op <= 0 {
		t.Errorf("first line should be entering: %f", op)
	}

	if logo := findElement(t, st.Elements, "brand-logo"); logo.Src != "/forge-logo.png" {
		t.Errorf("unexpected brand logo %q", logo.Src)
	}

	last := c.Render(c.Timeline().LastFrame(), p)
	past := c.Render(c.Timeline().LastFrame()+500, p)
	past.Frame = last.Frame
	if !reflect.DeepEqual(last, past) {
		t.Error("frames past the end should hold the final state")
	}
}

func TestStaggerOverruns(t *testing.T) {
	cfg := config.Default()
	cfg.DurationInFrames = 390 // 30 frame segments

	c := newComposer(t, cfg)
	overruns := c.StaggerOverruns()
	if len(overruns) == 0 {
		t.Fatal("expected overruns on a short timeline")
	}

	found := false
	for _, o := range overruns {
		if o.Scene == "top-tracks" && o.Item == 1 {
			found = true
			if o.Start != 52.5 || o.Duration != 30 {
				t.Errorf("unexpected overrun %v", o)
			}
		}
		if o.Item == 0 {
			t.Errorf("first item fits, got %v", o)
		}
	}
	if !found {
		t.Errorf("missing top-tracks item 1 in %v", overruns)
	}

	// still renders, the late items are simply not entered yet
	st := c.Render(c.Timeline().Start(3)+29, samplePayload())
	if len(st.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(st.Items))
	}
}

func TestNewComposerErrors(t *testing.T) {
	cfg := config.Default()

	if _, err := NewComposer(cfg, Scenes()[:12]); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for missing scene, got %v", err)
	}

	short := cfg
	short.DurationInFrames = 12
	if _, err := NewComposer(short, Scenes()); !errors.Is(err, director.ErrSegmentDuration) {
		t.Errorf("expected ErrSegmentDuration, got %v", err)
	}

	broken := Scenes()
	broken[4].Elements = append(broken[4].Elements, ElementSpec{
		ID:       "lonely",
		Channels: []Channel{kf(Opacity, 10, 1)},
	})
	if _, err := NewComposer(cfg, broken); !errors.Is(err, renderer.ErrTooFewKeyframes) {
		t.Errorf("expected ErrTooFewKeyframes, got %v", err)
	}

	badColor := Scenes()
	badColor[0].Elements[0].Color = "not-a-colour"
	if _, err := NewComposer(cfg, badColor); err == nil {
		t.Error("expected error for unknown colour")
	}

	twice := Scenes()
	twice[2].Elements[0].Channels = append(twice[2].Elements[0].Channels, konst(Opacity, 1))
	if _, err := NewComposer(cfg, twice); err == nil {
		t.Error("expected error for a property animated twice")
	}

	noLimit := Scenes()
	noLimit[3].List.Limit = 0
	if _, err := NewComposer(cfg, noLimit); err == nil {
		t.Error("expected error for zero list limit")
	}
}

func TestWave(t *testing.T) {
	tests := []struct {
		name     string
		wave     Wave
		offset   float64
		index    int
		expected float64
	}{
		{"sin at zero", sin(5, 0.03), 0, 0, 0},
		{"cos at zero", cos(3, 0.03), 0, 0, 3},
		{"abs sin is positive", absSin(4, 1), -math.Pi / 2, 0, 4},
		{"phase by index", sin(2, 0.5).phase(math.Pi), 0, 1, 2 * math.Sin(0.5*math.Pi)},
		{"amplitude step", sin(0.8, 1).step(-0.1), math.Pi / 2, 2, 0.6},
		{"shift", sin(1, 1).shift(math.Pi / 2), 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wave.at(tt.offset, tt.index); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}
