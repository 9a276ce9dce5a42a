package filters

// Filter is a validated instance of a Schema, built once per request and only
// read afterwards.
type Filter struct {
	schema *Schema
	values map[string]interface{}
}

// New coerces and validates values, keyed by field name, into a Filter.
// Unknown keys are ignored and page_token is decoded with DecodeCursor.
// Nested fields accept a *Filter of the nested schema or a map of its values.
func (s *Schema) New(values map[string]interface{}) (*Filter, error) {
	f := &Filter{
		schema: s,
		values: make(map[string]interface{}, len(s.fields)),
	}

	var errs []FieldError
	supplied := make(map[string]bool, len(values))
	for _, field := range s.fields {
		raw, ok := values[field.Name]
		if !ok || raw == nil {
			if field.Default != nil {
				f.values[field.Name] = field.Default
			}
			continue
		}
		supplied[field.Name] = true

		value, err := coerce(field, raw)
		if err != nil {
			errs = append(errs, fieldErrors(field, raw, err)...)
			continue
		}
		if token, ok := value.(string); ok && field.Name == PageTokenField {
			value = DecodeCursor(token)
		}
		if value != nil {
			f.values[field.Name] = value
		}
	}

	errs = append(errs, f.validate(supplied)...)
	if len(errs) > 0 {
		return nil, &ValidationError{Schema: s.name, Errors: errs}
	}
	return f, nil
}

// MustNew is like New but panics on validation failure.
func (s *Schema) MustNew(values map[string]interface{}) *Filter {
	f, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Filter) Schema() *Schema {
	return f.schema
}

// Value returns the coerced value of a field and whether it is set.
func (f *Filter) Value(name string) (interface{}, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Filters compiles the filter and logical operations. Every call builds new
// operations, so callers may prefix or otherwise modify the result.
func (f *Filter) Filters() []Operation {
	ops := make([]Operation, 0, len(f.values))
	for _, c := range f.schema.capabilities {
		ops = c.contributeFilters(f, ops)
	}
	return ops
}

// OrderBy compiles the sort operations in token order, empty when sort is unset.
func (f *Filter) OrderBy() []*SortOperation {
	var ops []*SortOperation
	for _, c := range f.schema.capabilities {
		ops = c.contributeOrderBy(f, ops)
	}
	return ops
}

func (f *Filter) IsPaginated() bool      { return f.schema.IsPaginated() }
func (f *Filter) IsTokenPaginated() bool { return f.schema.IsTokenPaginated() }
func (f *Filter) IsOrdered() bool        { return f.schema.IsOrdered() }

func (f *Filter) Page() int {
	return f.intValue(PageField, 1)
}

func (f *Filter) PageSize() int {
	return f.intValue(PageSizeField, DefaultPageSize)
}

// Offset is the index of the first item of the requested page.
func (f *Filter) Offset() int {
	return (f.Page() - 1) * f.PageSize()
}

// Limit is the page size.
func (f *Filter) Limit() int {
	return f.PageSize()
}

// PageToken returns the decoded page token.
func (f *Filter) PageToken() (string, bool) {
	token, ok := f.values[PageTokenField].(string)
	return token, ok
}

// Query returns the search query, empty when unset.
func (f *Filter) Query() string {
	query, _ := f.values[QueryField].(string)
	return query
}

// Sort returns the raw sort tokens.
func (f *Filter) Sort() []string {
	tokens, _ := f.values[SortField].([]string)
	return tokens
}

// Fields returns the requested projection, nil when every field is requested.
func (f *Filter) Fields() []string {
	fields, _ := f.values[FieldsField].([]string)
	return fields
}

func (f *Filter) intValue(name string, def int) int {
	if v, ok := f.values[name].(int); ok {
		return v
	}
	return def
}
