// Package server HTTP слой сервиса проверки сделок.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"compliance/server/handlers"
	"compliance/server/middleware"
)

// ResultStore чтение журнала проверок
type ResultStore = handlers.ResultStore

// Server HTTP сервер
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// Options параметры сервера
type Options struct {
	Port string
	// Gatherer источник метрик для /metrics; nil означает глобальный реестр
	Gatherer prometheus.Gatherer
	// ReadTimeout и WriteTimeout должны покрывать ожидание базы знаний
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New создает сервер и регистрирует маршруты
func New(opts Options, svc handlers.Screener, store handlers.ResultStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Port == "" {
		opts.Port = "8000"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Minute
	}

	engine := gin.New()
	engine.Use(
		middleware.GinRequestIDMiddleware(),
		// gzip снаружи recovery: ответ 500 пишется до закрытия gzip writer
		middleware.GinGzipMiddleware(),
		middleware.GinLoggerMiddleware(logger),
		middleware.GinRecoveryMiddleware(logger),
		middleware.GinErrorMiddleware(logger),
	)

	h := handlers.NewComplianceHandler(svc, store, logger)
	h.RegisterRoutes(engine.Group("/compliance"))
	engine.GET("/health", handlers.HandleHealth)

	metrics := promhttp.Handler()
	if opts.Gatherer != nil {
		metrics = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
	}
	engine.GET("/metrics", gin.WrapH(metrics))

	handlers.RegisterSwaggerRoutes(engine, net.JoinHostPort("localhost", opts.Port))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              ":" + opts.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
		},
		logger: logger,
	}
}

// Handler возвращает http.Handler с маршрутами
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start запускает сервер и блокируется до остановки
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
