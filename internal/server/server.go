// Package server exposes rewind sessions to the web painter over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/oauth2"

	"github.com/ivlev/rewind2video/internal/analyzer"
	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/director"
	"github.com/ivlev/rewind2video/internal/effects"
	"github.com/ivlev/rewind2video/internal/engine"
	"github.com/ivlev/rewind2video/internal/insights"
	"github.com/ivlev/rewind2video/internal/source"
)

const (
	stateCookie = "spotify_auth_state"
	tokenCookie = "spotify_access_token"

	sessionTTL  = time.Hour
	maxSessions = 256
)

// Scopes requested from the Spotify account.
var Scopes = []string{
	"user-top-read",
	"user-read-email",
	"user-follow-read",
	"user-read-private",
	"user-read-recently-played",
}

// FetchFunc loads a listener's history with an access token.
type FetchFunc func(ctx context.Context, token string) (*source.Listening, error)

type Server struct {
	e        *echo.Echo
	cfg      config.Config
	oauth    *oauth2.Config
	composer *effects.Composer
	assets   source.Assets
	gen      insights.Generator
	fetch    FetchFunc

	mu          sync.RWMutex
	rng         *rand.Rand
	sessions    map[string]storedSession
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

type storedSession struct {
	*engine.RenderSession
	created time.Time
}

// New wires the routes. gen may be nil, in which case placeholder captions
// are used.
func New(cfg config.Config, composer *effects.Composer, assets source.Assets, gen insights.Generator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		e:   e,
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURL:  cfg.Spotify.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.Spotify.AuthURL,
				TokenURL: cfg.Spotify.TokenURL,
			},
		},
		composer: composer,
		assets:   assets,
		gen:      gen,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions:    make(map[string]storedSession),
		ttl:         sessionTTL,
		maxSessions: maxSessions,
		now:         time.Now,
	}
	s.fetch = func(ctx context.Context, token string) (*source.Listening, error) {
		return source.NewSpotifyClientForToken(ctx, cfg.Spotify, token).Fetch(ctx)
	}

	group := e.Group("/api")
	group.GET("/auth", s.login)
	group.GET("/auth/callback", s.callback)
	group.POST("/rewind", s.createRewind)
	group.GET("/rewind/:id/manifest", s.getManifest)
	group.GET("/rewind/:id/frames/:frame", s.getFrame)
	group.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := http.Server{Handler: s.e}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && ctx.Err() == nil {
		log.Printf("[!] Сервер остановлен с ошибкой: %v", err)
		return err
	}
	return nil
}

func (s *Server) login(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *Server) callback(c echo.Context) error {
	if msg := c.QueryParam("error"); msg != "" {
		return c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(msg))
	}
	stored, err := c.Cookie(stateCookie)
	if err != nil || stored.Value == "" || stored.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "state mismatch")
	}

	tok, err := s.oauth.Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		log.Printf("WARN server: token exchange failed: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "token exchange failed")
	}

	c.SetCookie(&http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	cookie := &http.Cookie{
		Name:     tokenCookie,
		Value:    tok.AccessToken,
		Path:     "/",
		HttpOnly: true,
	}
	if !tok.Expiry.IsZero() {
		cookie.Expires = tok.Expiry
	}
	c.SetCookie(cookie)
	return c.Redirect(http.StatusFound, "/rewind")
}

type rewindResponse struct {
	ID       string             `json:"id"`
	Manifest *director.Manifest `json:"manifest"`
}

func (s *Server) createRewind(c echo.Context) error {
	token, err := c.Cookie(tokenCookie)
	if err != nil || token.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	ctx := c.Request().Context()
	listening, err := s.fetch(ctx, token.Value)
	if err != nil {
		if errors.Is(err, source.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "spotify token rejected")
		}
		log.Printf("WARN server: listening history unavailable: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "spotify unavailable")
	}

	payload := analyzer.Summarize(listening)
	if payload.Captions.Empty() {
		payload.Captions = insights.Captions(ctx, s.gen, payload)
	}

	id := uuid.NewString()
	s.mu.Lock()
	session := engine.NewRenderSession(s.cfg, s.composer, payload, s.assets, s.rng)
	s.evictLocked()
	s.sessions[id] = storedSession{RenderSession: session, created: s.now()}
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, rewindResponse{ID: id, Manifest: session.Manifest()})
}

// evictLocked drops expired sessions and, when still full, the oldest ones
// until there is room for one more.
func (s *Server) evictLocked() {
	now := s.now()
	for id, st := range s.sessions {
		if now.Sub(st.created) > s.ttl {
			delete(s.sessions, id)
		}
	}
	for s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldest string
		for id, st := range s.sessions {
			if oldest == "" || st.created.Before(s.sessions[oldest].created) {
				oldest = id
			}
		}
		delete(s.sessions, oldest)
	}
}

func (s *Server) session(c echo.Context) (*engine.RenderSession, error) {
	s.mu.RLock()
	st, ok := s.sessions[c.Param("id")]
	s.mu.RUnlock()
	if !ok || s.now().Sub(st.created) > s.ttl {
		return nil, echo.NewHTTPError(http.StatusNotFound, "rewind not found")
	}
	return st.RenderSession, nil
}

func (s *Server) getManifest(c echo.Context) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session.Manifest())
}

func (s *Server) getFrame(c echo.Context) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}
	frame, err := strconv.Atoi(c.Param("frame"))
	if err != nil || frame < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "frame must be a non-negative integer")
	}
	return c.JSON(http.StatusOK, session.Frame(frame))
}
