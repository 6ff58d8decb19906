package main

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/easytrans/easytrans-go/internal/config"
	"github.com/easytrans/easytrans-go/internal/telemetry"
	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

// newClient wires configuration, logging, and the HTTP transports together
// for a single command invocation.
func newClient() (*easytrans.Client, *otelzap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	client := easytrans.New(cfg.ClientConfig(), logger, nil)
	return client, logger, nil
}
