package effects

import (
	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/renderer"
	"github.com/ivlev/rewind2video/internal/source"
)

const (
	ink      = "#191414"
	charcoal = "#191919"
	green    = "#1db954"
	shade    = "black"
)

// Scenes returns the thirteen scenes of the rewind, one per segment.
func Scenes() []Scene {
	return []Scene{
		introScene(),
		greetingScene(),
		tracksCaptionScene(),
		tracksListScene(),
		artistsCaptionScene(),
		artistsListScene(),
		recentCaptionScene(),
		recentListScene(),
		discoveriesCaptionScene(),
		discoveriesListScene(),
		genresCaptionScene(),
		genresListScene(),
		closingScene(),
	}
}

func introScene() Scene {
	return Scene{
		Name: "intro",
		Elements: []ElementSpec{
			{
				ID:    "title",
				Text:  static("Welcome to Your Spotify Rewind"),
				Color: ink,
				Channels: []Channel{
					kf(Opacity, 0, 0, 20, 0.7, 30, 1),
					kf(Y, 0, 50, 30, 0),
					kf(Scale, 30, 1, 45, 1.05, 60, 1),
				},
			},
			{
				ID:     "profile-image",
				Src:    profileImage,
				Shadow: green,
				Channels: []Channel{
					kf(Opacity, 20, 0, 45, 1),
					kf(Scale, 20, 0.8, 45, 1.1, 55, 0.95, 65, 1),
					kf(Rotation, 45, 0, 65, 5, 85, -5, 105, 0),
					kf(ShadowBlur, 45, 0, 75, 20, 105, 10),
					kf(ShadowOpacity, 45, 0, 75, 0.5, 105, 0.3),
				},
			},
			{
				ID:    "username",
				Text:  displayName,
				Color: ink,
				Channels: []Channel{
					kf(Opacity, 40, 0, 60, 0.7, 70, 0.9, 80, 1),
					kf(X, 40, -300, 70, 0),
				},
			},
			{
				ID:  "logo",
				Src: logo,
				Channels: []Channel{
					kf(Opacity, 60, 0, 80, 1),
					kf(Y, 60, 50, 80, 0),
				},
			},
		},
	}
}

func greetingScene() Scene {
	return Scene{
		Name: "greeting",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.Hello }, "Hello, Spotify User!"),
				Color:  ink,
				Shadow: ink,
				Channels: []Channel{
					kf(Opacity, 0, 0, 20, 1).ease(easing.Elastic),
					kf(Scale, 0, 0.8, 20, 1.2, 40, 0.9, 60, 1).ease(easing.Bounce),
					kf(Y, 0, 50, 30, 0).plus(sin(5, 0.03)),
					float(ShadowY, absSin(8, 0.02)),
					konst(ShadowBlur, 15),
					konst(ShadowOpacity, 0.3),
				},
			},
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					kf(ShadowOpacity, 40, 0, 60, 0.3),
					float(Y, sin(3, 0.03)),
					kf(Scale, 40, 0.9, 50, 1.05, 60, 1),
				},
			},
		},
	}
}

func tracksCaptionScene() Scene {
	return Scene{
		Name: "top-tracks-caption",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.TopTracks }, "Your Top Tracks"),
				Color:  ink,
				Shadow: charcoal,
				Channels: []Channel{
					kf(Opacity, 0, 0, 25, 1),
					kf(Rotation, 0, 5, 15, -3, 30, 0).ease(easing.Elastic),
					kf(X, 0, -300, 30, 0),
					kf(ShadowOpacity, 20, 0, 40, 0.4, 60, 0.25),
					kf(ShadowBlur, 20, 0, 40, 15, 60, 8),
					konst(ShadowY, 4),
				},
			},
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					float(Y, sin(4, 0.03)),
					kf(Scale, 35, 0.9, 45, 1.1, 55, 1),
					kf(ShadowOpacity, 35, 0, 55, 0.25),
				},
			},
		},
	}
}

func tracksListScene() Scene {
	return Scene{
		Name: "top-tracks",
		Elements: []ElementSpec{
			{
				ID:     "heading",
				Text:   static("Top Tracks"),
				Color:  ink,
				Shadow: shade,
				Channels: []Channel{
					kf(Opacity, 0, 0, 15, 1),
					kf(Y, 0, -20, 15, 0).ease(easing.Elastic),
					kf(ShadowOpacity, 0, 0, 15, 0.2),
				},
			},
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					float(Y, sin(4, 0.04)),
					konst(ShadowOpacity, 0.2).plus(absSin(0.1, 0.04)),
				},
			},
		},
		List: &ListSpec{
			Entries: topTracks,
			Limit:   3,
			Delay:   15,
			Stride:  20,
			Elements: []ElementSpec{
				{
					ID: "card",
					Channels: []Channel{
						kf(Opacity, 0, 0, 15, 1),
						sprung(Scale, gain(0.2, -inf, inf).bias(0.8)),
						kf(X, 0, 100, 25, 0).ease(easing.Elastic),
						float(Y, sin(3, 0.03).phase(8)),
					},
				},
				{
					ID:     "image",
					Src:    entryImage,
					Shadow: shade,
					Channels: []Channel{
						konst(ShadowY, 4).plus(absSin(4, 0.04)),
						konst(ShadowBlur, 8).plus(absSin(4, 0.04)),
						konst(ShadowOpacity, 0.2).plus(absSin(0.1, 0.04)),
						kf(Scale, 10, 0.95, 20, 1.05, 30, 1),
					},
				},
				{
					ID:    "name",
					Text:  entryName,
					Color: ink,
					Channels: []Channel{
						kf(Opacity, 10, 0, 25, 1),
						kf(Y, 10, 10, 25, 0).ease(easing.Elastic),
					},
				},
				{
					ID:    "artist",
					Text:  entrySubtitle,
					Color: ink,
					Channels: []Channel{
						kf(Opacity, 15, 0, 30, 0.7),
					},
				},
			},
		},
	}
}

func artistsCaptionScene() Scene {
	return Scene{
		Name: "top-artists-caption",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.TopArtists }, "Your Top Artists"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					kf(Opacity, 0, 0, 20, 1).ease(easing.Elastic),
					kf(Rotation, 0, -20, 15, 10, 30, 0).ease(easing.Elastic).plus(sin(0.5, 0.02)),
					kf(Scale, 0, 0.5, 15, 1.3, 25, 0.9, 35, 1.1, 45, 1).ease(easing.Bounce),
					kf(X, 0, -200, 20, 0).ease(easing.Elastic),
					float(Y, sin(5, 0.03)),
					kf(ShadowBlur, 20, 0, 40, 15, 60, 10, 80, 5),
					kf(ShadowOpacity, 20, 0, 40, 0.7),
					konst(ShadowY, 3),
				},
			},
			floatingLogo(sin(5, 0.02), cos(3, 0.03), renderer.K(40, 0.9, 60, 1.05, 80, 1), 40, 0.3),
		},
	}
}

func artistsListScene() Scene {
	return Scene{
		Name: "top-artists",
		Elements: []ElementSpec{
			listHeading("Top Artists"),
			floatingLogo(sin(5, 0.02), cos(3, 0.03), renderer.K(60, 0.9, 80, 1.05, 100, 1), 60, 0.3),
		},
		List: &ListSpec{
			Entries: topArtists,
			Limit:   3,
			Delay:   15,
			Stride:  20,
			Elements: []ElementSpec{
				{
					ID: "card",
					Channels: []Channel{
						sprung(Opacity, gain(1.2, 0, 1)),
						sprung(Scale, gain(1.1, -inf, 1)),
						float(Y, sin(4, 0.02).phase(20)),
						float(Rotation, sin(1, 0.02).phase(12)),
					},
				},
				{
					ID:     "image",
					Src:    entryImage,
					Shadow: shade,
					Channels: []Channel{
						konst(Radius, 0.5),
						konst(ShadowOpacity, 0.2).plus(absSin(0.15, 0.03)),
						konst(ShadowY, 6).plus(absSin(4, 0.03)),
						konst(ShadowBlur, 9).plus(absSin(6, 0.03)),
						kf(Scale, 0, 0.9, 15, 1.05, 30, 1).ease(easing.Bounce),
						kf(BorderOpacity, 0, 0, 20, 1),
					},
				},
				{
					ID:     "name",
					Text:   entryName,
					Color:  ink,
					Shadow: shade,
					Channels: []Channel{
						kf(Opacity, 10, 0, 25, 1),
						kf(Y, 10, 15, 25, 0).ease(easing.Elastic),
						kf(ShadowOpacity, 15, 0, 30, 0.2),
					},
				},
			},
		},
	}
}

func recentCaptionScene() Scene {
	return Scene{
		Name: "recent-caption",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.RecentTracks }, "Your Recently Played"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					kf(Gradient, 0, 0, 60, 100),
					kf(ShadowBlur, 0, 0, 30, 15, 60, 8),
					kf(ShadowOpacity, 0, 0, 30, 0.6, 60, 0.3),
					float(Y, sin(5, 0.03)),
					float(Rotation, sin(0.7, 0.02)),
					sprung(Scale, gain(1, 0.5, 1.1)),
					kf(Opacity, 0, 0, 30, 1),
					konst(ShadowY, 2),
				},
			},
			captionLogo(sin(4, 0.04), cos(3, 0.03), 0.3),
		},
	}
}

func recentListScene() Scene {
	return Scene{
		Name: "recent",
		Elements: []ElementSpec{
			listHeading("Recently Played"),
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					float(X, sin(3, 0.03)),
					float(Y, cos(2, 0.03)),
					konst(ShadowOpacity, 0.2).plus(absSin(0.1, 0.04)),
				},
			},
		},
		List: &ListSpec{
			Entries: recentTracks,
			Limit:   3,
			Delay:   15,
			Stride:  15,
			Elements: []ElementSpec{
				{
					ID: "card",
					Channels: []Channel{
						sprung(Scale, gain(1.05, 0, 1)),
						sprung(Opacity, gain(1.2, 0, 1)),
						kf(X, 0, -20, 20, 0).ease(easing.Back),
						float(Y, sin(2, 0.03).phase(15)),
					},
				},
				{
					ID:     "image",
					Src:    entryImage,
					Shadow: shade,
					Channels: []Channel{
						konst(ShadowOpacity, 0.15).plus(sin(0.1, 0.04).phase(10)),
						konst(ShadowY, 5).plus(sin(3, 0.04).phase(10)),
						konst(ShadowBlur, 7.5).plus(sin(4.5, 0.04).phase(10)),
						kf(Scale, 5, 0.95, 15, 1.05, 25, 1).ease(easing.Bounce),
						kf(BorderOpacity, 0, 0, 15, 0.3),
					},
				},
				{
					ID:     "name",
					Text:   entryName,
					Color:  ink,
					Shadow: shade,
					Channels: []Channel{
						kf(Opacity, 10, 0, 25, 1),
						kf(Y, 10, 10, 25, 0),
						kf(ShadowOpacity, 15, 0, 30, 0.2),
					},
				},
				{
					ID:    "artist",
					Text:  entrySubtitle,
					Color: ink,
					Channels: []Channel{
						kf(Opacity, 15, 0, 30, 0.7),
						kf(Y, 15, 5, 30, 0),
					},
				},
			},
		},
	}
}

func discoveriesCaptionScene() Scene {
	return Scene{
		Name: "discoveries-caption",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.NewDiscoveries }, "New Discoveries"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					sprung(Scale, gain(1, 0, 1.1)),
					kf(ShadowBlur, 0, 0, 20, 15, 40, 10),
					kf(ShadowOpacity, 0, 0, 20, 0.4, 40, 0.25),
					float(Y, sin(4, 0.03)),
					float(Rotation, sin(0.8, 0.02)),
					kf(Opacity, 0, 0, 20, 1).ease(easing.Elastic),
					konst(Brightness, 1).plus(sin(0.05, 0.04)),
					konst(ShadowY, 3),
				},
			},
			captionLogo(sin(5, 0.03), cos(4, 0.04), 0.35),
		},
	}
}

func discoveriesListScene() Scene {
	return Scene{
		Name: "discoveries",
		Elements: []ElementSpec{
			{
				ID:     "heading",
				Text:   static("New Discoveries"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					kf(Y, 0, -25, 20, 0).ease(easing.Elastic),
					float(Rotation, sin(0.5, 0.02)),
					kf(Opacity, 0, 0, 20, 1),
					kf(ShadowBlur, 0, 0, 20, 12, 40, 6),
					kf(ShadowOpacity, 0, 0, 20, 0.35, 40, 0.25),
				},
			},
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					float(X, sin(4, 0.02)),
					float(Y, cos(3, 0.03)),
					kf(Scale, 60, 0.95, 75, 1.05, 90, 1),
					konst(ShadowOpacity, 0.2).plus(absSin(0.1, 0.03)),
				},
			},
		},
		List: &ListSpec{
			Entries: discoveries,
			Limit:   3,
			Delay:   15,
			Stride:  18,
			Elements: []ElementSpec{
				{
					ID: "card",
					Channels: []Channel{
						sprung(Scale, gain(1, 0, 1.05)),
						sprung(Opacity, gain(1.2, 0, 1)),
						float(Rotation, sin(0.8, 0.02).step(-0.1).phase(15)),
						float(Y, sin(3, 0.03).phase(22)),
					},
				},
				{
					ID:     "image",
					Src:    entryImage,
					Shadow: shade,
					Channels: []Channel{
						konst(ShadowOpacity, 0.15).plus(sin(0.1, 0.04).phase(12)),
						konst(ShadowBlur, 4).plus(sin(3, 0.04).phase(12)),
						konst(ShadowY, 2).plus(sin(1, 0.04).phase(12)),
						kf(Scale, 5, 0.92, 15, 1.04, 25, 1).ease(easing.Back),
						kf(BorderOpacity, 0, 0, 20, 0.8),
						konst(Brightness, 1).plus(sin(0.04, 0.03).phase(15)),
					},
				},
				{
					ID:     "name",
					Text:   entryName,
					Color:  ink,
					Shadow: shade,
					Channels: []Channel{
						kf(Opacity, 8, 0, 23, 1),
						kf(Y, 8, 12, 23, 0).ease(easing.Elastic),
						kf(ShadowOpacity, 15, 0, 30, 0.25),
					},
				},
				{
					ID:    "subtitle",
					Text:  entrySubtitle,
					Color: ink,
					Channels: []Channel{
						kf(Opacity, 18, 0, 33, 0.7),
						kf(Y, 18, 5, 33, 0),
					},
				},
			},
		},
	}
}

func genresCaptionScene() Scene {
	return Scene{
		Name: "genres-caption",
		Elements: []ElementSpec{
			{
				ID:     "title",
				Text:   caption(func(c source.Captions) string { return c.Genres }, "Your Favorite Genres"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					sprung(Opacity, gain(1.2, 0, 1)),
					sprung(Scale, gain(0.3, 0.8, 1.1).bias(0.8)),
					float(Rotation, sin(1, 0.03)),
					kf(ShadowBlur, 0, 0, 20, 15, 40, 8),
					kf(ShadowOpacity, 0, 0, 25, 0.45, 50, 0.25),
					float(Y, sin(4, 0.03)),
					konst(ShadowY, 3),
				},
			},
			captionLogo(sin(5, 0.04), cos(3, 0.03), 0.3),
		},
	}
}

func genresListScene() Scene {
	return Scene{
		Name: "genres",
		Elements: []ElementSpec{
			{
				ID:     "heading",
				Text:   static("Your Musical Universe"),
				Color:  ink,
				Shadow: green,
				Channels: []Channel{
					kf(Y, 0, -20, 20, 0).ease(easing.Elastic),
					float(Rotation, sin(0.5, 0.025)),
					kf(Opacity, 0, 0, 20, 1),
					kf(ShadowBlur, 0, 0, 20, 10, 40, 5),
					kf(ShadowOpacity, 0, 0, 20, 0.35, 40, 0.2),
					konst(Brightness, 1).plus(sin(0.05, 0.04)),
				},
			},
			{
				ID:     "logo",
				Src:    logo,
				Shadow: shade,
				Channels: []Channel{
					float(X, sin(4, 0.02)),
					float(Y, cos(3, 0.03)),
					konst(ShadowOpacity, 0.2).plus(absSin(0.1, 0.03)),
					kf(Opacity, 0, 0, 40, 1),
				},
			},
		},
		List: &ListSpec{
			Entries: genres,
			Limit:   4,
			Delay:   15,
			Stride:  12,
			Elements: []ElementSpec{
				{
					ID: "card",
					Channels: []Channel{
						sprung(Scale, gain(1, 0, 1.05)),
						sprung(Opacity, gain(1.2, 0, 1)),
						kf(X, 0, -40, 20, 0).ease(easing.Elastic).mirror().plus(sin(2, 0.03).phase(20)),
						float(Y, cos(1, 0.04).phase(15)),
					},
				},
				{
					ID:     "name",
					Text:   entryName,
					Color:  ink,
					Shadow: shade,
					Channels: []Channel{
						kf(Brightness, 0, 0.7, 30, 1),
						kf(ShadowOpacity, 10, 0, 30, 0.2),
					},
				},
				{
					ID:    "count",
					Text:  static("times"),
					Color: ink,
					Channels: []Channel{
						kf(Count, 10, 0, 40, 1).perCount().round(),
						kf(Opacity, 15, 0, 35, 0.7),
						kf(Scale, 15, 0.9, 25, 1.1, 35, 1).ease(easing.Bounce),
					},
				},
			},
		},
	}
}

func closingScene() Scene {
	line := func(id, text string, delay int, shift float64) ElementSpec {
		return ElementSpec{
			ID:     id,
			Text:   static(text),
			Color:  "white",
			Shadow: shade,
			Channels: []Channel{
				sprung(Scale, gain(1, 0, 1.2).delay(delay)),
				sprung(Opacity, gain(1.2, 0, 1).delay(delay)),
				float(Y, sin(4, 0.02).shift(shift)),
				float(Rotation, sin(0.5, 0.015).shift(shift)),
				kf(ShadowBlur, 0, 0, 40, 20, 80, 15),
				kf(ShadowOpacity, 0, 0, 40, 0.6, 80, 0.5),
			},
		}
	}

	return Scene{
		Name: "closing",
		Elements: []ElementSpec{
			{
				ID: "background",
				ColorKeys: []renderer.ColorKeyframe{
					{Time: 0, Value: "black"},
					{Time: 60, Value: green},
				},
				Channels: []Channel{
					kf(Gradient, 0, 0, 120, 360),
				},
			},
			line("made-with", "Made With", 0, 0),
			line("brand", "Forge Zone", 20, 10),
			{
				ID:     "brand-logo",
				Src:    brandLogo,
				Shadow: green,
				Channels: []Channel{
					sprung(Opacity, gain(1.2, 0, 1).delay(40)),
					sprung(Scale, gain(1, 0, 1.2).delay(40)).pulse(sin(0.05, 0.04)),
					float(X, sin(6, 0.02)),
					float(Y, cos(4, 0.03)),
					konst(Brightness, 1).plus(sin(0.1, 0.05)),
					kf(ShadowOpacity, 40, 0, 80, 0.6),
				},
			},
			{
				ID:  "qr",
				Src: brandQR,
				Channels: []Channel{
					kf(Opacity, 60, 0, 90, 1),
				},
			},
		},
	}
}

// listHeading is the heading shared by the artist and recent list scenes.
func listHeading(text string) ElementSpec {
	return ElementSpec{
		ID:     "heading",
		Text:   static(text),
		Color:  ink,
		Shadow: green,
		Channels: []Channel{
			kf(Y, 0, -30, 20, 0).ease(easing.Elastic),
			kf(Opacity, 0, 0, 20, 1),
			kf(ShadowBlur, 0, 0, 20, 10, 40, 5),
			kf(ShadowOpacity, 0, 0, 20, 0.4, 40, 0.2),
		},
	}
}

// floatingLogo drifts on both axes and pops in with a small scale bounce.
func floatingLogo(x, y Wave, scale []renderer.Keyframe, shadowAt, shadow float64) ElementSpec {
	return ElementSpec{
		ID:     "logo",
		Src:    logo,
		Shadow: shade,
		Channels: []Channel{
			float(X, x),
			float(Y, y),
			{Prop: Scale, Keys: scale},
			kf(ShadowOpacity, shadowAt, 0, shadowAt+20, shadow),
		},
	}
}

// captionLogo fades in after the caption has landed.
func captionLogo(x, y Wave, shadow float64) ElementSpec {
	return ElementSpec{
		ID:     "logo",
		Src:    logo,
		Shadow: shade,
		Channels: []Channel{
			kf(Opacity, 40, 0, 60, 1),
			float(X, x),
			float(Y, y),
			kf(Scale, 40, 0.9, 55, 1.1, 70, 1),
			kf(ShadowOpacity, 40, 0, 60, shadow),
		},
	}
}

