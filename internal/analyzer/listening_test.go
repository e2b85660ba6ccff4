package analyzer

import (
	"testing"

	"github.com/ivlev/rewind2video/internal/source"
)

func artist(id string, genres ...string) source.Artist {
	return source.Artist{ID: id, Name: "Artist " + id, Genres: genres}
}

func TestRankGenres(t *testing.T) {
	artists := []source.Artist{
		artist("1", "pop", "dance pop"),
		artist("2", "indie", "pop"),
		artist("3", "indie", "pop", "jazz"),
		artist("4", "rock"),
		artist("5", "metal", "folk"),
	}

	ranked := RankGenres(artists, GenreLimit)
	expected := []source.GenrePair{
		{Name: "pop", Count: 3},
		{Name: "indie", Count: 2},
		{Name: "dance pop", Count: 1},
		{Name: "jazz", Count: 1},
		{Name: "rock", Count: 1},
	}

	if len(ranked) != len(expected) {
		t.Fatalf("expected %d genres, got %d: %+v", len(expected), len(ranked), ranked)
	}
	for i := range expected {
		if ranked[i] != expected[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, expected[i], ranked[i])
		}
	}
}

func TestRankGenresEmpty(t *testing.T) {
	if got := RankGenres(nil, GenreLimit); len(got) != 0 {
		t.Errorf("expected no genres, got %+v", got)
	}
	if got := RankGenres([]source.Artist{artist("1")}, GenreLimit); len(got) != 0 {
		t.Errorf("artist without genres should add nothing, got %+v", got)
	}
}

func TestNewDiscoveries(t *testing.T) {
	long := []source.Artist{artist("a"), artist("b")}
	short := []source.Artist{artist("c"), artist("a"), artist("d")}

	fresh := NewDiscoveries(short, long)
	if len(fresh) != 2 || fresh[0].ID != "c" || fresh[1].ID != "d" {
		t.Errorf("unexpected discoveries: %+v", fresh)
	}

	if got := NewDiscoveries(nil, long); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSummarize(t *testing.T) {
	l := &source.Listening{
		Profile:          source.UserProfile{DisplayName: "Ana"},
		TopArtists:       source.Page[source.Artist]{Items: []source.Artist{artist("a", "pop")}},
		ShortTermArtists: source.Page[source.Artist]{Items: []source.Artist{artist("b", "jazz")}},
	}

	p := Summarize(l)
	if p.Profile.DisplayName != "Ana" {
		t.Errorf("profile lost: %+v", p.Profile)
	}
	if len(p.Genres) != 1 || p.Genres[0].Name != "pop" {
		t.Errorf("genres should come from long-term artists: %+v", p.Genres)
	}
	if len(p.NewDiscoveries) != 1 || p.NewDiscoveries[0].ID != "b" {
		t.Errorf("unexpected discoveries: %+v", p.NewDiscoveries)
	}
	if !p.Captions.Empty() {
		t.Error("summary should not invent captions")
	}
}
