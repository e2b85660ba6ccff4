package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/rewind2video/internal/analyzer"
	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/director"
	"github.com/ivlev/rewind2video/internal/effects"
	"github.com/ivlev/rewind2video/internal/insights"
	"github.com/ivlev/rewind2video/internal/source"
	"github.com/ivlev/rewind2video/internal/system"
	"github.com/ivlev/rewind2video/internal/video"
)

const manifestVersion = "1.0"

// NewComposer собирает все сцены и предупреждает об элементах списка,
// которые не успеют появиться в своём сегменте.
func NewComposer(cfg config.Config) (*effects.Composer, error) {
	composer, err := effects.NewComposer(cfg, effects.Scenes())
	if err != nil {
		return nil, fmt.Errorf("ошибка конфигурации сцен: %w", err)
	}
	for _, o := range composer.StaggerOverruns() {
		log.Printf("[!] Элемент списка не помещается в сегмент: %s", o)
	}
	return composer, nil
}

// PrepareAssets заполняет ссылки на логотипы и при необходимости создаёт
// QR-код бренда.
func PrepareAssets(cfg config.Config) source.Assets {
	assets := source.Assets{Logo: cfg.LogoURL, BrandLogo: cfg.BrandLogoURL}
	if cfg.BrandURL == "" {
		return assets
	}
	if err := system.WriteBrandQR(cfg.BrandURL, cfg.QRPath, 256); err != nil {
		log.Printf("[!] %v", err)
		return assets
	}
	assets.BrandQR = cfg.QRPath
	return assets
}

// FetchPayload загружает историю прослушиваний по токену, добавляет подписи
// и сохраняет данные в dir, чтобы ролик можно было пересобрать через FileSource.
func FetchPayload(ctx context.Context, cfg config.Config, token string, gen insights.Generator, dir string) (*source.Payload, string, error) {
	listening, err := source.NewSpotifyClientForToken(ctx, cfg.Spotify, token).Fetch(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("загрузка данных Spotify: %w", err)
	}

	payload := analyzer.Summarize(listening)
	payload.Captions = insights.Captions(ctx, gen, payload)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	path := director.GenerateOutputPath(dir, "payload", ".json")
	if err := source.WritePayload(payload, path); err != nil {
		return nil, "", fmt.Errorf("сохранение данных: %w", err)
	}
	return payload, path, nil
}

// RenderSession держит всё, что нужно для вычисления кадров одного ролика.
// После создания сессия не изменяется.
type RenderSession struct {
	Config    config.Config
	Composer  *effects.Composer
	Payload   *source.Payload
	Song      string
	SongIndex int
}

// NewRenderSession выбирает трек один раз на сессию и фиксирует данные.
func NewRenderSession(cfg config.Config, composer *effects.Composer, payload *source.Payload, assets source.Assets, rng *rand.Rand) *RenderSession {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &source.Payload{}
	if payload != nil {
		*p = *payload
	}
	idx := rng.Intn(cfg.SongCount) + 1
	song := system.SongPath(cfg.SongsDir, idx)

	p.Assets = mergeAssets(p.Assets, assets)
	p.Assets.Song = song

	return &RenderSession{
		Config:    cfg,
		Composer:  composer,
		Payload:   p,
		Song:      song,
		SongIndex: idx,
	}
}

func mergeAssets(have, defaults source.Assets) source.Assets {
	if have.Logo == "" {
		have.Logo = defaults.Logo
	}
	if have.BrandLogo == "" {
		have.BrandLogo = defaults.BrandLogo
	}
	if have.BrandQR == "" {
		have.BrandQR = defaults.BrandQR
	}
	return have
}

func (s *RenderSession) Frame(n int) effects.State {
	return s.Composer.Render(n, s.Payload)
}

func (s *RenderSession) Manifest() *director.Manifest {
	tl := s.Composer.Timeline()
	return &director.Manifest{
		Version:          manifestVersion,
		Width:            s.Config.Width,
		Height:           s.Config.Height,
		FPS:              s.Config.FPS,
		DurationInFrames: s.Config.DurationInFrames,
		Tempo:            s.Config.Tempo,
		Song:             s.Song,
		Segments:         tl.Describe(s.Composer.SceneNames()),
	}
}

// Stats описывает один прогон экспорта.
type Stats struct {
	Frames  int
	Workers int
	Render  time.Duration
	Write   time.Duration
}

// Run вычисляет все кадры параллельно и пишет их в enc строго по порядку.
func (s *RenderSession) Run(ctx context.Context, enc video.StateEncoder) (Stats, error) {
	total := s.Config.DurationInFrames
	workers := s.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	stats := Stats{Frames: total, Workers: workers}

	fmt.Printf("[*] Кадров: %d | %dx%d @ %d FPS | Потоков: %d\n", total, s.Config.Width, s.Config.Height, s.Config.FPS, workers)
	fmt.Printf("[*] Трек: %s\n", s.Song)

	renderStart := time.Now()
	states := make([]effects.State, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			states[i] = s.Frame(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("рендер прерван: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("рендер прерван: %w", err)
	}
	stats.Render = time.Since(renderStart)

	writeStart := time.Now()
	step := max(1, total/10)
	for i, st := range states {
		if err := enc.Encode(st); err != nil {
			return stats, err
		}
		if (i+1)%step == 0 || i+1 == total {
			fmt.Printf("[>] Готово: %d/%d\n", i+1, total)
		}
	}
	stats.Write = time.Since(writeStart)

	if s.Config.ShowStats {
		s.report(stats)
	}
	return stats, nil
}

func (s *RenderSession) report(st Stats) {
	totalTime := st.Render + st.Write
	fps := 0.0
	if totalTime > 0 {
		fps = float64(st.Frames) / totalTime.Seconds()
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Frame states (CPU): %.2fs\n"+
			"Writing: %.2fs\n"+
			"Workers: %d\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		s.Config.BuildVersion, totalTime.Seconds(), st.Render.Seconds(), st.Write.Seconds(), st.Workers, fps, system.MemoryReport(),
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Write: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		s.Config.BuildVersion,
		st.Frames,
		totalTime.Seconds(),
		st.Render.Seconds(),
		st.Write.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
