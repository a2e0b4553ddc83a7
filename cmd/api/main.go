package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shortbread.app/shortbread/cmd/api/handlers"
	"shortbread.app/shortbread/internal/application"
	"shortbread.app/shortbread/internal/config"
	"shortbread.app/shortbread/internal/db"
	"shortbread.app/shortbread/internal/ingest"
	"shortbread.app/shortbread/internal/media"
	"shortbread.app/shortbread/internal/platform"
	"shortbread.app/shortbread/internal/storage"
	"shortbread.app/shortbread/pkg/ytdlp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting api service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(conf.SpoolDir, 0o755); err != nil {
		slog.Error("failed to create spool dir", "dir", conf.SpoolDir, "error", err)
		os.Exit(1)
	}

	pool, err := application.OpenDBPoolWithRetry(ctx, *conf)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	dbc, err := db.NewDatabaseConnection(ctx, pool)
	if err != nil {
		slog.Error("failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer dbc.Close()

	objectStore, err := storage.NewClient(ctx, storage.Config{
		Bucket:        conf.S3Bucket,
		Region:        conf.S3Region,
		Endpoint:      conf.S3Endpoint,
		AccessKey:     conf.S3AccessKey,
		SecretKey:     conf.S3SecretKey,
		PublicBaseURL: conf.S3PublicBaseURL,
	})
	if err != nil {
		slog.Error("failed to create object store client", "error", err)
		os.Exit(1)
	}

	client := ytdlp.New()
	client.Path = conf.YtdlpPath
	if v, err := client.Version(ctx); err != nil {
		slog.Warn("yt-dlp not available at startup", "path", client.PathOrDefault(), "error", err)
	} else {
		slog.Info("yt-dlp ready", "version", v)
	}

	fetcher := media.NewFetcher(client, conf.SpoolDir)
	allowList := platform.ParseAllowList(conf.AllowedPlatforms)
	service := ingest.NewService(fetcher, objectStore, dbc.Videos(), allowList)

	e := newWebserver(service)

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) || ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newWebserver(service *ingest.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/health", handlers.HandleHealth())
	e.POST("/api/videos", handlers.HandleSaveVideo(service))
	e.GET("/api/videos", handlers.HandleListVideos(service))
	e.GET("/api/videos/:id", handlers.HandleGetVideo(service))
	e.DELETE("/api/videos/:id", handlers.HandleDeleteVideo(service))

	return e
}
