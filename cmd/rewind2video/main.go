package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/director"
	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/engine"
	"github.com/ivlev/rewind2video/internal/insights"
	"github.com/ivlev/rewind2video/internal/server"
	"github.com/ivlev/rewind2video/internal/source"
	"github.com/ivlev/rewind2video/internal/system"
	"github.com/ivlev/rewind2video/internal/video"
)

func main() {
	// Локальные ключи Spotify и Gemini
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[!] Не удалось прочитать .env: %v", err)
	}

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	configPtr := flag.String("config", "", "Путь к YAML-конфигурации (по умолчанию встроенные значения)")
	payloadPtr := flag.String("payload", "", "JSON с данными прослушиваний (по умолчанию: самый свежий файл в input/)")
	outputPtr := flag.String("output", "", "Файл состояний кадров JSONL (если пусто, берётся из конфигурации)")
	framePtr := flag.Int("frame", -1, "Вывести состояние одного кадра и выйти")
	servePtr := flag.Bool("serve", false, "Запустить HTTP-сервер вместо экспорта")
	listenPtr := flag.String("listen", "", "Адрес сервера, например :8080")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу ядер)")
	tempoPtr := flag.Float64("tempo", 0, "Темп анимаций (0 - из конфигурации)")
	easingPtr := flag.String("easing", "", "Кривая по умолчанию: "+strings.Join(easing.Names(), ", "))
	statsPtr := flag.Bool("stats", false, "Показать отчёт о производительности")
	tokenPtr := flag.String("token", "", "Токен доступа Spotify: загрузить свежие данные и сохранить их в input/")
	captionsPtr := flag.Bool("captions", false, "Сгенерировать подписи через Gemini, если их нет в данных")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	cfg.ApplyEnv()

	if *outputPtr != "" {
		cfg.OutputPath = *outputPtr
	}
	if *payloadPtr != "" {
		cfg.PayloadPath = *payloadPtr
	}
	if *listenPtr != "" {
		cfg.Listen = *listenPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *tempoPtr > 0 {
		cfg.Tempo = *tempoPtr
	}
	if *tokenPtr != "" {
		cfg.Spotify.AccessToken = *tokenPtr
	}
	fetch := cfg.Spotify.AccessToken != "" && cfg.PayloadPath == "" && !*servePtr
	if *easingPtr != "" {
		cfg.Easing = *easingPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	composer, err := engine.NewComposer(cfg)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	assets := engine.PrepareAssets(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen insights.Generator
	if *servePtr || *captionsPtr || fetch {
		g, err := insights.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("[!] Gemini недоступен, будут использованы заглушки: %v", err)
		} else {
			gen = g
		}
	}

	if *servePtr {
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			log.Fatalf("[-] Не удалось открыть %s: %v", cfg.Listen, err)
		}
		fmt.Printf("[*] Сервер слушает %s\n", ln.Addr())
		if err := server.New(cfg, composer, assets, gen).Serve(ctx, ln); err != nil {
			log.Fatalf("[-] Ошибка сервера: %v", err)
		}
		return
	}

	var payload *source.Payload
	if fetch {
		p, saved, err := engine.FetchPayload(ctx, cfg, cfg.Spotify.AccessToken, gen, "input")
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		payload = p
		fmt.Printf("[*] Данные Spotify сохранены: %s\n", saved)
	} else {
		payloadPath := cfg.PayloadPath
		if payloadPath == "" {
			latest, err := system.FindLatestPayload("input")
			if err != nil {
				log.Fatalf("[-] Ошибка: %v. Положите JSON с данными в input/", err)
			}
			payloadPath = latest
			fmt.Printf("[*] Выбран файл: %s\n", payloadPath)
		}

		payload, err = source.NewFileSource(payloadPath).Load(ctx)
		if err != nil {
			log.Fatalf("[-] Ошибка загрузки данных: %v", err)
		}
	}
	if payload.Captions.Empty() && *captionsPtr {
		payload.Captions = insights.Captions(ctx, gen, payload)
	}

	session := engine.NewRenderSession(cfg, composer, payload, assets, nil)

	if *framePtr >= 0 {
		out, err := json.MarshalIndent(session.Frame(*framePtr), "", "  ")
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Println(string(out))
		return
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		os.MkdirAll("output", 0755)
		outputPath = director.GenerateOutputPath("output", "rewind", ".jsonl")
	}

	enc, err := video.CreateJSONLines(outputPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if _, err := session.Run(ctx, enc); err != nil {
		enc.Close()
		log.Fatalf("[-] Ошибка рендера: %v", err)
	}
	if err := enc.Close(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	manifestPath := cfg.ManifestPath
	if manifestPath == "" {
		manifestPath = director.ManifestPathFor(outputPath)
	}
	if err := director.WriteManifest(session.Manifest(), manifestPath); err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Printf("[*] Манифест: %s\n", manifestPath)

	fmt.Printf("[+++] Успех! Результат: %s\n", outputPath)
}
