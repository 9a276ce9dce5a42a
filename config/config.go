package config

import (
	"github.com/restviews/restviews/log"
)

type Config interface {
	DefaultPageSize() int
	MaxPageSize() int
	Naming() NamingConvention
	Logger() log.Logger
}
