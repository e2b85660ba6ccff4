package effects

import (
	"github.com/ivlev/rewind2video/internal/source"
)

func trackEntry(t source.Track) Entry {
	return Entry{Name: t.Name, Subtitle: t.PrimaryArtist(), Image: t.Cover()}
}

func artistEntry(a source.Artist, fallback string) Entry {
	e := Entry{Name: a.Name, Image: source.FirstImage(a.Images), Subtitle: fallback}
	if len(a.Genres) > 0 {
		e.Subtitle = a.Genres[0]
	}
	return e
}

func topTracks(p *source.Payload) []Entry {
	out := make([]Entry, 0, len(p.TopTracks.Items))
	for _, t := range p.TopTracks.Items {
		out = append(out, trackEntry(t))
	}
	return out
}

func topArtists(p *source.Payload) []Entry {
	out := make([]Entry, 0, len(p.TopArtists.Items))
	for _, a := range p.TopArtists.Items {
		out = append(out, artistEntry(a, ""))
	}
	return out
}

func recentTracks(p *source.Payload) []Entry {
	out := make([]Entry, 0, len(p.RecentlyPlayed.Items))
	for _, h := range p.RecentlyPlayed.Items {
		out = append(out, trackEntry(h.Track))
	}
	return out
}

func discoveries(p *source.Payload) []Entry {
	out := make([]Entry, 0, len(p.NewDiscoveries))
	for _, a := range p.NewDiscoveries {
		out = append(out, artistEntry(a, "Artist"))
	}
	return out
}

func genres(p *source.Payload) []Entry {
	out := make([]Entry, 0, len(p.Genres))
	for _, g := range p.Genres {
		out = append(out, Entry{Name: g.Name, Count: g.Count})
	}
	return out
}

func static(s string) TextFunc {
	return func(*source.Payload, Entry) string { return s }
}

// caption renders a generated caption, or fallback when none was supplied.
// Placeholder captions are ordinary text here.
func caption(pick func(source.Captions) string, fallback string) TextFunc {
	return func(p *source.Payload, _ Entry) string {
		if s := pick(p.Captions); s != "" {
			return s
		}
		return fallback
	}
}

func entryName(_ *source.Payload, e Entry) string     { return e.Name }
func entrySubtitle(_ *source.Payload, e Entry) string { return e.Subtitle }
func entryImage(_ *source.Payload, e Entry) string    { return e.Image }

func displayName(p *source.Payload, _ Entry) string {
	if p.Profile.DisplayName == "" {
		return "Spotify User"
	}
	return p.Profile.DisplayName
}

func profileImage(p *source.Payload, _ Entry) string { return source.FirstImage(p.Profile.Images) }
func logo(p *source.Payload, _ Entry) string         { return p.Assets.Logo }
func brandLogo(p *source.Payload, _ Entry) string    { return p.Assets.BrandLogo }
func brandQR(p *source.Payload, _ Entry) string      { return p.Assets.BrandQR }
