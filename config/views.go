package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/restviews/restviews/filters"
)

// Pagination styles of a view
const (
	PagePagination  = "page"
	TokenPagination = "token"
	NoPagination    = "none"
)

// ViewConfig declares a list endpoint over a single table
type ViewConfig struct {
	Name            string        `mapstructure:"name"`
	Table           string        `mapstructure:"table"`
	Columns         []string      `mapstructure:"columns"`
	Fields          []FieldConfig `mapstructure:"fields"`
	Ordering        []string      `mapstructure:"ordering"`
	Search          []string      `mapstructure:"search"`
	Projection      []string      `mapstructure:"projection"`
	Pagination      string        `mapstructure:"pagination"`
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
}

// FieldConfig declares a filter field, name may carry an operator suffix
// e.g. "age__ge"
type FieldConfig struct {
	Name    string      `mapstructure:"name"`
	Kind    string      `mapstructure:"kind"`
	Alias   string      `mapstructure:"alias"`
	Default interface{} `mapstructure:"default"`
}

// DecodeViews decodes the "views" section of a config file. List values may
// also be given as comma separated strings.
func DecodeViews(raw interface{}) ([]ViewConfig, error) {
	var views []ViewConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           &views,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid views: %v", err)
	}

	for i := range views {
		if views[i].Name == "" {
			return nil, fmt.Errorf("view %d has no name", i)
		}
		if views[i].Table == "" {
			views[i].Table = views[i].Name
		}
	}
	return views, nil
}

// Schema builds the filter schema of the view, page sizes default to the
// ones of cfg.
func (v ViewConfig) Schema(cfg Config) (*filters.Schema, error) {
	fields := make([]filters.Field, 0, len(v.Fields))
	for _, field := range v.Fields {
		kind, err := filters.ParseKind(field.Kind)
		if err != nil {
			return nil, fmt.Errorf("view %s: field %s: %v", v.Name, field.Name, err)
		}
		fields = append(fields, filters.Field{
			Name:    field.Name,
			Kind:    kind,
			Alias:   field.Alias,
			Default: field.Default,
		})
	}

	caps := []filters.Capability{&filters.Model{Fields: fields}}
	if len(v.Ordering) > 0 {
		caps = append(caps, &filters.Ordering{Fields: v.Ordering})
	}
	if len(v.Search) > 0 {
		caps = append(caps, &filters.Search{Fields: v.Search})
	}
	if len(v.Projection) > 0 {
		caps = append(caps, &filters.Projection{Allowed: v.Projection})
	}

	defaultSize, maxSize := v.DefaultPageSize, v.MaxPageSize
	if defaultSize <= 0 {
		defaultSize = cfg.DefaultPageSize()
	}
	if maxSize <= 0 {
		maxSize = cfg.MaxPageSize()
	}

	switch strings.ToLower(v.Pagination) {
	case "", PagePagination:
		caps = append(caps, &filters.Pagination{DefaultPageSize: defaultSize, MaxPageSize: maxSize})
	case TokenPagination:
		caps = append(caps, &filters.TokenPagination{DefaultPageSize: defaultSize, MaxPageSize: maxSize})
	case NoPagination:
	default:
		return nil, fmt.Errorf("view %s: unknown pagination '%s'", v.Name, v.Pagination)
	}

	return filters.NewSchema(v.Name, caps...)
}
