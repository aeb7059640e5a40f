package container

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"compliance/callback"
	"compliance/database"
	"compliance/internal/config"
	"compliance/lightrag"
	"compliance/normalization"
	"compliance/prompt"
	"compliance/screening"
	"compliance/server"
)

// Container контейнер зависимостей сервиса.
// Управляет жизненным циклом журнала и фоновых доставок callback.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Journal nil, если журнал отключен
	Journal  *database.JournalDB
	Client   *lightrag.Client
	Notifier *callback.Notifier

	Registry *prometheus.Registry
	Metrics  *screening.Metrics
	Service  *screening.Service
}

// NewContainer собирает зависимости по конфигурации
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = screening.NewMetrics(c.Registry)

	if cfg.JournalDatabasePath != "" {
		journal, err := database.NewJournalDBWithConfig(cfg.JournalDatabasePath, cfg.DBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		c.Journal = journal
		logger.Info("Journal opened", "path", cfg.JournalDatabasePath)
	} else {
		logger.Info("Journal disabled")
	}

	c.Client = lightrag.NewClient(cfg.LightRAG(), logger)
	c.Notifier = callback.NewNotifier(cfg.CallbackTimeout, logger,
		callback.WithFailureHook(c.Metrics.CallbackFailureHook()))

	builder := prompt.NewBuilder(cfg.HomeJurisdiction)
	builder.Language = cfg.PromptLanguage
	builder.Variants = normalization.NewGenerator(logger).Generate

	opts := []screening.Option{
		screening.WithMetrics(c.Metrics),
		screening.WithDeliverer(c.Notifier),
		screening.WithPayloadOptions(cfg.PayloadOptions(logger)),
	}
	if c.Journal != nil {
		opts = append(opts, screening.WithJournal(c.Journal))
	}
	c.Service = screening.NewService(builder, c.Client, logger, opts...)

	return c, nil
}

// NewServer создает HTTP сервер поверх сервиса
func (c *Container) NewServer() *server.Server {
	var store server.ResultStore
	if c.Journal != nil {
		store = c.Journal
	}
	return server.New(server.Options{
		Port:         c.Config.Port,
		Gatherer:     c.Registry,
		WriteTimeout: c.Config.LightRAGConnectTimeout + c.Config.LightRAGWriteTimeout + c.Config.LightRAGReadTimeout + c.Config.CallbackTimeout,
	}, c.Service, store, c.Logger)
}

// Close дожидается фоновых доставок и закрывает журнал
func (c *Container) Close() error {
	if c.Notifier != nil {
		c.Notifier.Wait()
	}
	if c.Journal != nil {
		return c.Journal.Close()
	}
	return nil
}
