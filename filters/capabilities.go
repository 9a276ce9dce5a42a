package filters

import (
	"strings"
)

const (
	DefaultPageSize    = 100
	DefaultMaxPageSize = 500
)

// Special field names
const (
	PageField      = "page"
	PageSizeField  = "page_size"
	PageTokenField = "page_token"
	SortField      = "sort"
	QueryField     = "query"
	QueryParam     = "q"
	FieldsField    = "fields"
)

type capabilityKind int

// The declaration order is the accumulation order of Filter.Filters.
const (
	modelCapability capabilityKind = iota
	projectionCapability
	searchCapability
	orderingCapability
	paginationCapability
	tokenPaginationCapability
)

func (k capabilityKind) String() string {
	switch k {
	case modelCapability:
		return "model"
	case projectionCapability:
		return "projection"
	case searchCapability:
		return "search"
	case orderingCapability:
		return "ordering"
	case paginationCapability:
		return "pagination"
	case tokenPaginationCapability:
		return "token pagination"
	}
	return "unknown"
}

// Capability is one composable part of a filter schema. Each capability owns
// a set of fields and appends its operations to the ones accumulated by the
// capabilities before it.
type Capability interface {
	kind() capabilityKind
	attach(s *Schema) error
	fields() []Field
	contributeFilters(f *Filter, acc []Operation) []Operation
	contributeOrderBy(f *Filter, acc []*SortOperation) []*SortOperation
	// validated lists the struct fields of specialParams checked by the validator
	validated() []string
}

type noContribution struct{}

func (noContribution) contributeFilters(_ *Filter, acc []Operation) []Operation { return acc }
func (noContribution) contributeOrderBy(_ *Filter, acc []*SortOperation) []*SortOperation {
	return acc
}

// Model compiles every declared field into a filter operation. A field named
// "{field}__{operator}" yields that operator, anything else compares with eq.
type Model struct {
	noContribution
	Fields []Field
}

func (m *Model) kind() capabilityKind { return modelCapability }
func (m *Model) fields() []Field      { return m.Fields }
func (m *Model) validated() []string  { return nil }

func (m *Model) attach(s *Schema) error {
	s.model = m
	return nil
}

func (m *Model) contributeFilters(f *Filter, acc []Operation) []Operation {
	for _, field := range m.Fields {
		value, ok := f.values[field.Name]
		if !ok || value == nil {
			continue
		}

		if nested, ok := value.(*Filter); ok {
			for _, op := range nested.Filters() {
				op.SetPrefix(field.Name)
				acc = append(acc, op)
			}
			continue
		}

		name, op := SplitOperator(field.Name)
		acc = append(acc, &FilterOperation{Field: name, Operator: op, Values: value})
	}
	return acc
}

// SplitOperator splits a field name at the first "__" into the field and the
// operator, the operator defaults to eq.
func SplitOperator(name string) (string, Operator) {
	if i := strings.Index(name, PrefixSeparator); i >= 0 {
		return name[:i], Operator(name[i+len(PrefixSeparator):])
	}
	return name, OpEq
}

// Pagination is page number pagination: offset = (page-1)*page_size.
type Pagination struct {
	noContribution
	// DefaultPageSize is used when page_size is absent, DefaultPageSize when zero.
	DefaultPageSize int
	// MaxPageSize bounds page_size, DefaultMaxPageSize when zero.
	MaxPageSize int
}

func (p *Pagination) kind() capabilityKind { return paginationCapability }
func (p *Pagination) validated() []string  { return []string{"Page", "PageSize"} }

func (p *Pagination) attach(s *Schema) error {
	s.pagination = p
	return nil
}

func (p *Pagination) fields() []Field {
	return []Field{
		{Name: PageSizeField, Kind: Int, Default: pageSizeOrDefault(p.DefaultPageSize)},
		{Name: PageField, Kind: Int, Default: 1},
	}
}

func (p *Pagination) maxPageSize() int { return maxPageSizeOrDefault(p.MaxPageSize) }

// TokenPagination is cursor pagination with an opaque page token.
type TokenPagination struct {
	noContribution
	DefaultPageSize int
	MaxPageSize     int
}

func (p *TokenPagination) kind() capabilityKind { return tokenPaginationCapability }
func (p *TokenPagination) validated() []string  { return []string{"PageSize"} }

func (p *TokenPagination) attach(s *Schema) error {
	s.token = p
	return nil
}

func (p *TokenPagination) fields() []Field {
	return []Field{
		{Name: PageSizeField, Kind: Int, Default: pageSizeOrDefault(p.DefaultPageSize)},
		{Name: PageTokenField, Kind: String},
	}
}

func (p *TokenPagination) maxPageSize() int { return maxPageSizeOrDefault(p.MaxPageSize) }

func pageSizeOrDefault(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

func maxPageSizeOrDefault(size int) int {
	if size <= 0 {
		return DefaultMaxPageSize
	}
	return size
}

// Ordering accepts a list of sort tokens, each optionally prefixed with "-"
// for descending order. Every token must be one of Fields.
type Ordering struct {
	Fields []string
}

func (o *Ordering) kind() capabilityKind { return orderingCapability }
func (o *Ordering) validated() []string  { return []string{"Sort"} }

func (o *Ordering) attach(s *Schema) error {
	s.ordering = o
	return nil
}

func (o *Ordering) fields() []Field {
	return []Field{{Name: SortField, Kind: StringList}}
}

func (o *Ordering) contributeFilters(_ *Filter, acc []Operation) []Operation { return acc }

func (o *Ordering) contributeOrderBy(f *Filter, acc []*SortOperation) []*SortOperation {
	for _, token := range f.Sort() {
		acc = append(acc, &SortOperation{
			Field:      strings.TrimLeft(token, "+-"),
			Descending: strings.HasPrefix(token, "-"),
		})
	}
	return acc
}

func (o *Ordering) allowed() map[string]struct{} {
	allowed := make(map[string]struct{}, len(o.Fields))
	for _, field := range o.Fields {
		allowed[field] = struct{}{}
	}
	return allowed
}

// Search matches the query case insensitively against any of Fields.
type Search struct {
	Fields []string
}

func (c *Search) kind() capabilityKind { return searchCapability }
func (c *Search) validated() []string  { return nil }

func (c *Search) attach(s *Schema) error {
	if len(c.Fields) == 0 {
		return errNoSearchFields
	}
	s.search = c
	return nil
}

func (c *Search) fields() []Field {
	return []Field{{Name: QueryField, Alias: QueryParam, Kind: String}}
}

func (c *Search) contributeFilters(f *Filter, acc []Operation) []Operation {
	query := f.Query()
	if query == "" {
		return acc
	}

	alternatives := make([]Operation, 0, len(c.Fields))
	for _, field := range c.Fields {
		alternatives = append(alternatives, &FilterOperation{Field: field, Operator: OpILike, Values: query})
	}
	return append(acc, &LogicalOperation{Operator: Or, Values: alternatives})
}

func (c *Search) contributeOrderBy(_ *Filter, acc []*SortOperation) []*SortOperation { return acc }

// Projection selects the attributes emitted by the response layer. It does
// not contribute operations. Allowed restricts the selectable names when set.
type Projection struct {
	noContribution
	Allowed []string
}

func (p *Projection) kind() capabilityKind { return projectionCapability }
func (p *Projection) validated() []string  { return []string{"Fields"} }

func (p *Projection) attach(s *Schema) error {
	s.projection = p
	return nil
}

func (p *Projection) fields() []Field {
	return []Field{{Name: FieldsField, Kind: StringList}}
}

func (p *Projection) allowed() map[string]struct{} {
	if len(p.Allowed) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(p.Allowed))
	for _, field := range p.Allowed {
		allowed[field] = struct{}{}
	}
	return allowed
}
