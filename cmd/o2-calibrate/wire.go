//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/tetragramaton/seeed-o2/internal/app"
	"github.com/tetragramaton/seeed-o2/internal/config"
	"go.uber.org/zap"
)

func InitMainHandler(cfg *config.Config, logger *zap.Logger) (*MainHandler, func(), error) {
	wire.Build(
		NewMainHandler,
		app.SensorSet,
	)
	return nil, nil, nil // wire will generate the result
}
