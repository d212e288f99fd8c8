package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/config"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/handler"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/middleware"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/router"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/broker"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/database"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
	applogger "github.com/cleytonmendest/viva-esperanca-sub000/pkg/logger"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/redis"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/validate"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("VIVA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao iniciar log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando aplicação",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	validate.Install()

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("falha ao conectar ao banco de dados", zap.Error(err))
	}

	if cfg.Database.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("falha ao obter sql.DB", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("falha nas migrações", zap.Error(err))
		}
	} else if err := database.AutoMigrate(db, model.All(), logger); err != nil {
		logger.Fatal("falha ao criar tabelas", zap.Error(err))
	}

	// 4. redis, optional: public endpoints run unthrottled without it
	var limiter middleware.RateLimiter
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis indisponível, limite de requisições desativado", zap.Error(err))
			rdb = nil
		} else {
			limiter = rdb
		}
	}

	// 5. audit fan-out, optional
	var publisher service.AuditPublisher
	var pub *broker.Publisher
	if cfg.NATS.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pub, err = broker.Connect(ctx, &cfg.NATS, logger)
		cancel()
		if err != nil {
			logger.Warn("NATS indisponível, auditoria não será publicada", zap.Error(err))
			pub = nil
		} else {
			publisher = pub
		}
	}

	// 6. Repository → Service → Handler
	m := metrics.New(prometheus.NewRegistry())
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtMgr, publisher, m, logger)
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, limiter, m, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("erro no servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("sinal recebido, encerrando", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("erro ao encerrar servidor", zap.Error(err))
	}

	if pub != nil {
		pub.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}

	logger.Info("servidor encerrado")
}
