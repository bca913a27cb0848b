package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tienda.shop/app/internal/config"
	apphttp "tienda.shop/app/internal/http"
	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/modules/auth"
	"tienda.shop/app/internal/modules/cart"
	"tienda.shop/app/internal/modules/catalog"
	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/storage"
	"tienda.shop/app/internal/storeapi"
)

func main() {
	// .env is optional; production uses real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	sessions, err := session.NewStore(cfg.SessionStore(), logger)
	if err != nil {
		return err
	}
	defer sessions.Close()

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	api := storeapi.New(cfg.StoreAPI(), logger)
	tracker := inflight.New()

	deps := apphttp.Deps{
		Logger:   logger,
		Sessions: session.NewManager(sessions.Store, logger),
		Flash:    flash.NewCodec(cfg.Key("flash", 32), "", cfg.CookieSecure),
		Auth:     auth.NewService(api, tracker, logger),
		Catalog:  catalog.NewService(api, tracker, logger),
		Cart:     cart.NewService(api, tracker, logger),
		Images:   storage.NewImages(images.Storage, cfg.Storage.MaxImageBytes, logger),
	}
	if images.Driver == "local" {
		deps.UploadDir = cfg.Storage.LocalDir
		deps.UploadURLPrefix = cfg.Storage.LocalURLPrefix
	}

	router, err := apphttp.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("api", cfg.APIBaseURL),
			slog.String("session_driver", sessions.Driver),
			slog.String("storage_driver", images.Driver),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
