package cmd

import (
	"context"

	"golang-backtest/config"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/service"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

// Services wires the repository layer and the services on top of it.
func (d *AppDependency) Services() (*repository.Repository, *service.Service) {
	repo := repository.NewRepository(d.cfg, d.cache, d.log)
	return repo, service.NewService(d.cfg, d.log, repo, d.validator)
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	_ = d.log.Sync()
	return nil
}
