// @title Compliance Screening API
// @version 1.0
// @description Проверка внешнеторговых сделок по санкционным спискам через базу знаний LightRAG.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name Internal Use Only
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"compliance/internal/config"
	"compliance/internal/container"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Error("Failed to build container", "error", err)
		os.Exit(1)
	}

	srv := c.NewServer()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Received signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := c.Close(); err != nil {
		logger.Error("Failed to close container", "error", err)
	}
	logger.Info("Server exited")
}
