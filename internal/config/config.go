package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/rewind2video/internal/easing"
)

// ErrInvalid is returned by Validate for any unusable setting.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	FPS              int     `yaml:"fps"`
	DurationInFrames int     `yaml:"duration_in_frames"`
	Segments         int     `yaml:"segments"`
	HoldPad          int     `yaml:"hold_pad"`
	Tempo            float64 `yaml:"tempo"`
	ColorMode        string  `yaml:"color_mode"`
	Easing           string  `yaml:"easing"`

	SongCount int    `yaml:"song_count"`
	SongsDir  string `yaml:"songs_dir"`

	Workers      int    `yaml:"workers"`
	PayloadPath  string `yaml:"payload"`
	OutputPath   string `yaml:"output"`
	ManifestPath string `yaml:"manifest"`
	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`

	LogoURL      string `yaml:"logo_url"`
	BrandLogoURL string `yaml:"brand_logo_url"`
	BrandURL     string `yaml:"brand_url"`
	QRPath       string `yaml:"qr_path"`

	Listen  string  `yaml:"listen"`
	Spotify Spotify `yaml:"spotify"`
	Gemini  Gemini  `yaml:"gemini"`
}

type Spotify struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"-"`
	RedirectURL  string `yaml:"redirect_url"`
	AuthURL      string `yaml:"auth_url"`
	TokenURL     string `yaml:"token_url"`
	BaseURL      string `yaml:"base_url"`
	MaxRetries   int    `yaml:"max_retries"`
	BackoffMs    int    `yaml:"backoff_ms"`
}

type Gemini struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

// SegmentParams describes one resolved timeline segment handed to a scene.
type SegmentParams struct {
	Index    int
	Start    int
	Duration int
	Offset   int
	FPS      int
	Tempo    float64
}

const (
	ColorStep  = "step"
	ColorBlend = "blend"
)

func Default() Config {
	return Config{
		Width:            1080,
		Height:           1920,
		FPS:              30,
		DurationInFrames: 1800,
		Segments:         13,
		HoldPad:          30,
		Tempo:            1.5,
		ColorMode:        ColorStep,
		Easing:           "smooth",
		SongCount:        5,
		SongsDir:         "songs",
		OutputPath:       "rewind_frames.jsonl",
		ManifestPath:     "rewind_manifest.yaml",
		LogoURL:          "/spotify-logo.png",
		BrandLogoURL:     "/forge-logo.png",
		QRPath:           "brand_qr.png",
		Listen:           ":8080",
		Spotify: Spotify{
			RedirectURL: "http://localhost:8080/api/auth/callback",
			AuthURL:     "https://accounts.spotify.com/authorize",
			TokenURL:    "https://accounts.spotify.com/api/token",
			BaseURL:     "https://api.spotify.com/v1",
			MaxRetries:  3,
			BackoffMs:   500,
		},
		Gemini: Gemini{Model: "gemini-1.5-flash"},
	}
}

// Load overlays the YAML file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv reads credentials and a few overrides from the environment.
func (c *Config) ApplyEnv() {
	setString(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Spotify.RedirectURL, "SPOTIFY_REDIRECT_URI")
	setString(&c.Spotify.AccessToken, "SPOTIFY_ACCESS_TOKEN")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Listen, "REWIND_LISTEN")
	setString(&c.BrandURL, "REWIND_BRAND_URL")
	if v := os.Getenv("REWIND_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	case c.DurationInFrames <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalid, c.DurationInFrames)
	case c.Segments <= 0:
		return fmt.Errorf("%w: segment count must be positive, got %d", ErrInvalid, c.Segments)
	case c.HoldPad < 0:
		return fmt.Errorf("%w: hold pad must not be negative, got %d", ErrInvalid, c.HoldPad)
	case c.Tempo <= 0:
		return fmt.Errorf("%w: tempo must be positive, got %g", ErrInvalid, c.Tempo)
	case c.SongCount <= 0:
		return fmt.Errorf("%w: song count must be positive, got %d", ErrInvalid, c.SongCount)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if c.ColorMode != ColorStep && c.ColorMode != ColorBlend {
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalid, c.ColorMode)
	}
	if _, err := easing.ByName(c.Easing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
