package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/rewind2video/internal/config"
)

// ErrUnauthorized means the access token was rejected.
var ErrUnauthorized = errors.New("spotify source: unauthorized")

const (
	TimeRangeLong  = "long_term"
	TimeRangeShort = "short_term"

	fetchLimit = 50
)

// SpotifyClient reads listening statistics from the Spotify Web API.
type SpotifyClient struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

func NewSpotifyClient(httpClient *http.Client, baseURL string, maxRetries int, backoff time.Duration) *SpotifyClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SpotifyClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  maxRetries,
		baseBackoff: backoff,
	}
}

// NewSpotifyClientForToken authenticates every request with a bearer token.
func NewSpotifyClientForToken(ctx context.Context, cfg config.Spotify, accessToken string) *SpotifyClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return NewSpotifyClient(oauth2.NewClient(ctx, ts), cfg.BaseURL, cfg.MaxRetries, time.Duration(cfg.BackoffMs)*time.Millisecond)
}

func (c *SpotifyClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("spotify source: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("spotify source: %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify source: decode %s: %w", path, err)
	}
	return nil
}

func (c *SpotifyClient) CurrentUser(ctx context.Context) (UserProfile, error) {
	var p UserProfile
	err := c.get(ctx, "/me", nil, &p)
	return p, err
}

func (c *SpotifyClient) TopTracks(ctx context.Context, timeRange string, limit int) (Page[Track], error) {
	var page Page[Track]
	err := c.get(ctx, "/me/top/tracks", rangeQuery(timeRange, limit), &page)
	return page, err
}

func (c *SpotifyClient) TopArtists(ctx context.Context, timeRange string, limit int) (Page[Artist], error) {
	var page Page[Artist]
	err := c.get(ctx, "/me/top/artists", rangeQuery(timeRange, limit), &page)
	return page, err
}

func (c *SpotifyClient) RecentlyPlayed(ctx context.Context, limit int) (Page[PlayHistory], error) {
	var page Page[PlayHistory]
	err := c.get(ctx, "/me/player/recently-played", url.Values{"limit": {strconv.Itoa(limit)}}, &page)
	return page, err
}

func rangeQuery(timeRange string, limit int) url.Values {
	return url.Values{
		"limit":      {strconv.Itoa(limit)},
		"time_range": {timeRange},
	}
}

// Fetch loads all listening data concurrently. The profile is required;
// every other listing degrades to an empty page when it cannot be read.
func (c *SpotifyClient) Fetch(ctx context.Context) (*Listening, error) {
	var l Listening
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := c.CurrentUser(gctx)
		if err != nil {
			return err
		}
		l.Profile = p
		return nil
	})
	g.Go(func() error {
		l.TopTracks = degrade(c.TopTracks(gctx, TimeRangeLong, fetchLimit))
		return nil
	})
	g.Go(func() error {
		l.TopArtists = degrade(c.TopArtists(gctx, TimeRangeLong, fetchLimit))
		return nil
	})
	g.Go(func() error {
		l.ShortTermArtists = degrade(c.TopArtists(gctx, TimeRangeShort, fetchLimit))
		return nil
	})
	g.Go(func() error {
		l.RecentlyPlayed = degrade(c.RecentlyPlayed(gctx, fetchLimit))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &l, nil
}

func degrade[T any](page Page[T], err error) Page[T] {
	if err != nil {
		log.Printf("WARN spotify source: %v", err)
		return Page[T]{}
	}
	return page
}
