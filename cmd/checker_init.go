package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/pipeline"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/zonage"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/pkg/ban"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/pkg/sirene"
)

// checkerEnv holds the initialized clients, the loaded reference
// datasets, and the checker used by the check/serve commands.
type checkerEnv struct {
	Checker *pipeline.Checker
	Data    *zonage.Datasets
}

// initChecker validates the configuration for the given mode, loads
// both reference datasets, and wires the upstream clients. Dataset
// loading is eager: a broken shapefile or ZRR table must fail the
// command at startup, not the first request.
func initChecker(mode string) (*checkerEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	data, err := zonage.Load(cfg.Data.QPVPath, cfg.Data.ZRRPath)
	if err != nil {
		return nil, err
	}

	sireneClient := sirene.NewClient(cfg.Sirene.APIKey,
		sirene.WithBaseURL(cfg.Sirene.BaseURL),
		sirene.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Sirene.TimeoutSecs) * time.Second}),
	)
	banClient := ban.NewClient(
		ban.WithBaseURL(cfg.BAN.BaseURL),
		ban.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.BAN.TimeoutSecs) * time.Second}),
		ban.WithRateLimit(float64(cfg.BAN.RateLimit)),
	)

	zap.L().Info("checker initialized",
		zap.Int("qpv_zones", data.QPV.Len()),
		zap.String("sirene_base_url", cfg.Sirene.BaseURL),
	)

	return &checkerEnv{
		Checker: pipeline.NewChecker(sireneClient, banClient, data),
		Data:    data,
	}, nil
}
