package config

import (
	"github.com/restviews/restviews/log"
	"go.uber.org/zap"
)

const (
	DefaultPageSize    = 100
	DefaultMaxPageSize = 500
)

type EndpointConfig struct {
	defaultPageSize int
	maxPageSize     int
	naming          NamingConvention
	logger          log.Logger
}

func (cfg EndpointConfig) DefaultPageSize() int {
	return cfg.defaultPageSize
}

func (cfg EndpointConfig) MaxPageSize() int {
	return cfg.maxPageSize
}

func (cfg EndpointConfig) Naming() NamingConvention {
	return cfg.naming
}

func (cfg EndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *EndpointConfig) WithDefaultPageSize(size int) *EndpointConfig {
	if size > 0 {
		cfg.defaultPageSize = size
	}
	return cfg
}

func (cfg *EndpointConfig) WithMaxPageSize(size int) *EndpointConfig {
	if size > 0 {
		cfg.maxPageSize = size
	}
	return cfg
}

func (cfg *EndpointConfig) WithNaming(naming NamingConvention) *EndpointConfig {
	cfg.naming = naming
	return cfg
}

func NewEndpointConfig() (*EndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger)), nil
}

func NewEndpointConfigWithLogger(logger log.Logger) *EndpointConfig {
	return &EndpointConfig{
		defaultPageSize: DefaultPageSize,
		maxPageSize:     DefaultMaxPageSize,
		naming:          NewDefaultNaming(),
		logger:          logger,
	}
}
