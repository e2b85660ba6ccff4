package source

import (
	"encoding/json"
	"fmt"
	"time"
)

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type UserProfile struct {
	ID          string  `json:"id,omitempty"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Images      []Image `json:"images"`
}

type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Images []Image `json:"images,omitempty"`
}

type Track struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists"`
	Album   Album       `json:"album"`
	Images  []Image     `json:"images,omitempty"`
}

type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Images     []Image  `json:"images"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity,omitempty"`
}

type PlayHistory struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Page is the envelope of the ranked and recent listings.
type Page[T any] struct {
	Items []T `json:"items"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total,omitempty"`
}

// GenrePair is a genre and how many ranked artists carry it. On the wire it
// is a two element array: ["pop", 7].
type GenrePair struct {
	Name  string
	Count int
}

func (g GenrePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{g.Name, g.Count})
}

func (g *GenrePair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("genre pair: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("genre pair: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &g.Name); err != nil {
		return fmt.Errorf("genre pair name: %w", err)
	}
	var count float64
	if err := json.Unmarshal(raw[1], &count); err != nil {
		return fmt.Errorf("genre pair count: %w", err)
	}
	g.Count = int(count)
	return nil
}

// Captions are the six short generated lines shown on the caption scenes.
type Captions struct {
	Hello          string `json:"hello"`
	TopTracks      string `json:"topTracks"`
	TopArtists     string `json:"topArtists"`
	NewDiscoveries string `json:"newdiscov"`
	Genres         string `json:"genres"`
	RecentTracks   string `json:"recentTracks"`
}

// Empty reports whether no caption has been filled in.
func (c Captions) Empty() bool {
	return c == Captions{}
}

// Assets are session level media references.
type Assets struct {
	Song      string `json:"song,omitempty"`
	Logo      string `json:"logo,omitempty"`
	BrandLogo string `json:"brandLogo,omitempty"`
	BrandQR   string `json:"brandQR,omitempty"`
}

// Payload is everything one rendering session shows. It is read-only once
// rendering starts.
type Payload struct {
	Profile        UserProfile       `json:"profile"`
	TopTracks      Page[Track]       `json:"topTracks"`
	TopArtists     Page[Artist]      `json:"topArtists"`
	RecentlyPlayed Page[PlayHistory] `json:"recentlyPlayed"`
	NewDiscoveries []Artist          `json:"newDiscoveries"`
	Genres         []GenrePair       `json:"genres"`
	Captions       Captions          `json:"captions"`
	Assets         Assets            `json:"assets"`
}

// Listening is the raw listening data fetched for one user, before genres
// and discoveries are derived from it.
type Listening struct {
	Profile          UserProfile
	TopTracks        Page[Track]
	TopArtists       Page[Artist]
	ShortTermArtists Page[Artist]
	RecentlyPlayed   Page[PlayHistory]
}

// FirstImage returns the URL of the first image or "".
func FirstImage(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// Cover returns the best artwork URL for the track.
func (t Track) Cover() string {
	if url := FirstImage(t.Album.Images); url != "" {
		return url
	}
	return FirstImage(t.Images)
}

// PrimaryArtist returns the first credited artist name or "".
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}
