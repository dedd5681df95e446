package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	converthandler "github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert/handler"
	convertservice "github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert/service"
	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
	"github.com/Figo14045/pdf-to-excel-converter/internal/observability"
	"github.com/Figo14045/pdf-to-excel-converter/internal/server"
	"github.com/Figo14045/pdf-to-excel-converter/pkg/config"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Services
	Metrics        *observability.Metrics
	Extractor      extract.Extractor
	ConvertService *convertservice.ConvertService

	// Handlers
	ConvertHandler *converthandler.ConvertHandler
	Router         http.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initServices(); err != nil {
		return nil, err
	}
	if err := deps.initHandlers(); err != nil {
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initServices initializes the extraction and conversion services
func (d *Dependencies) initServices() error {
	d.Metrics = observability.New(prometheus.DefaultRegisterer)
	d.Extractor = extract.NewPDFExtractor(d.Logger)
	d.ConvertService = convertservice.NewConvertService(d.Extractor, d.Metrics, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes the HTTP handlers and router
func (d *Dependencies) initHandlers() error {
	defaultProfile, err := extract.ParseProfile(d.Config.Convert.DefaultProfile)
	if err != nil {
		return err
	}

	d.ConvertHandler = converthandler.NewConvertHandler(
		d.ConvertService,
		d.Config.Convert.MaxUploadBytes,
		defaultProfile,
		d.Logger,
	)
	d.Router = server.New(d.Config, d.ConvertHandler, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}
