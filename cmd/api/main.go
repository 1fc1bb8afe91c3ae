package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atharvakonge/trading-competition/internal/config"
	"github.com/atharvakonge/trading-competition/internal/handlers"
	"github.com/atharvakonge/trading-competition/internal/market"
	"github.com/atharvakonge/trading-competition/internal/store"
	"github.com/atharvakonge/trading-competition/internal/trading"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}
	defer st.Close()

	// All state is rebuilt from scratch on every start: drop the
	// schema, recreate it, and seed the instrument price.
	ctx := context.Background()
	if err := st.Reset(ctx); err != nil {
		logger.Fatal("schema reset", zap.Error(err))
	}

	mkt := market.New(st)
	if _, err := mkt.Current(ctx, market.DefaultTicker); err != nil {
		logger.Fatal("seed price", zap.Error(err))
	}

	exec := trading.NewExecutor(st, st, mkt)
	srv := handlers.NewServer(st, mkt, exec, logger, handlers.Options{
		SessionSecret: cfg.SessionSecret,
		TemplateGlob:  "web/templates/*.html",
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: srv.R}
	go func() {
		logger.Info("http listening",
			zap.String("port", cfg.Port),
			zap.String("db_driver", cfg.DBDriver),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShut)
	logger.Info("shutdown complete")
}

func openStore(cfg config.Config) (*store.SQLStore, error) {
	if cfg.DBDriver == config.DriverPostgres {
		return store.Open(store.DriverPostgres, cfg.PostgresDSN())
	}
	return store.Open(store.DriverSQLite, cfg.SQLitePath)
}
