package filters

import (
	"encoding/csv"
	"net/url"
	"strings"
)

// Bind builds a Filter from request query parameters. List fields accept
// repeated parameters as well as comma separated values. Nested fields are
// read from "{field}__{nested field}" parameters and stay unset when none of
// them is present.
func (s *Schema) Bind(query url.Values) (*Filter, error) {
	values, err := s.bindValues(query, "")
	if err != nil {
		return nil, err
	}
	return s.New(values)
}

func (s *Schema) bindValues(query url.Values, prefix string) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	for _, field := range s.fields {
		param := prefix + field.param()

		if field.Kind == Nested {
			nested, err := field.Schema.bindValues(query, prefix+field.Name+PrefixSeparator)
			if err != nil {
				return nil, err
			}
			if len(nested) > 0 {
				values[field.Name] = nested
			}
			continue
		}

		raw, ok := query[param]
		if !ok || len(raw) == 0 {
			continue
		}

		if field.Kind.isList() {
			items, err := splitList(raw)
			if err != nil {
				return nil, &ValidationError{Schema: s.name, Errors: []FieldError{{
					Field:   field.Name,
					Message: field.Name + " must be a comma separated list",
					Value:   strings.Join(raw, ","),
				}}}
			}
			values[field.Name] = items
			continue
		}

		values[field.Name] = raw[0]
	}
	return values, nil
}

func splitList(raw []string) ([]string, error) {
	result := make([]string, 0, len(raw))
	for _, entry := range raw {
		if entry == "" {
			continue
		}
		split, err := csv.NewReader(strings.NewReader(entry)).Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" {
				result = append(result, part)
			}
		}
	}
	return result, nil
}
