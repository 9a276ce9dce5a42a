package filters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the declared type of a schema field, it drives value coercion.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Time
	Decimal
	StringList
	IntList
	FloatList
	Nested
)

var kindNames = map[Kind]string{
	String:     "string",
	Int:        "integer",
	Float:      "number",
	Bool:       "boolean",
	Time:       "datetime",
	Decimal:    "decimal",
	StringList: "list of strings",
	IntList:    "list of integers",
	FloatList:  "list of numbers",
	Nested:     "nested filter",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var kindAliases = map[string]Kind{
	"int":         Int,
	"float":       Float,
	"bool":        Bool,
	"time":        Time,
	"string_list": StringList,
	"int_list":    IntList,
	"float_list":  FloatList,
}

// ParseKind returns the kind named name, either its String value or a short
// alias such as "int" or "string_list". Nested kinds cannot be parsed.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if kind, ok := kindAliases[name]; ok {
		return kind, nil
	}
	for kind, kindName := range kindNames {
		if kind != Nested && kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown field kind '%s'", name)
}

func (k Kind) isList() bool {
	return k == StringList || k == IntList || k == FloatList
}

// Field describes one declared schema field.
type Field struct {
	// Name is the schema field name, optionally suffixed with "__{operator}".
	Name string
	Kind Kind
	// Alias is the request parameter name, Name is used when empty.
	Alias string
	// Default is used when the field is absent, nil means the field stays unset.
	Default interface{}
	// Schema is the nested filter schema, only for Nested fields.
	Schema *Schema
}

func (f Field) param() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Schema is an immutable filter type: the ordered field descriptors of every
// composed capability plus the set of special field names.
type Schema struct {
	name         string
	capabilities []Capability
	fields       []Field
	special      map[string]struct{}

	model      *Model
	pagination *Pagination
	token      *TokenPagination
	ordering   *Ordering
	search     *Search
	projection *Projection
}

// NewSchema composes capabilities into a schema. The order of caps does not
// matter, operations are always accumulated Model, Projection, Search,
// Ordering and then pagination.
func NewSchema(name string, caps ...Capability) (*Schema, error) {
	s := &Schema{
		name:    name,
		special: make(map[string]struct{}),
	}

	seen := make(map[capabilityKind]bool)
	for _, c := range caps {
		if c == nil {
			continue
		}
		if seen[c.kind()] {
			return nil, fmt.Errorf("schema %s: capability %s composed twice", name, c.kind())
		}
		seen[c.kind()] = true
		if err := c.attach(s); err != nil {
			return nil, fmt.Errorf("schema %s: %v", name, err)
		}
		s.capabilities = append(s.capabilities, c)
	}

	if s.pagination != nil && s.token != nil {
		return nil, fmt.Errorf("schema %s: page number and page token pagination are mutually exclusive", name)
	}

	sort.SliceStable(s.capabilities, func(i, j int) bool {
		return s.capabilities[i].kind() < s.capabilities[j].kind()
	})

	names := make(map[string]bool)
	for _, c := range s.capabilities {
		for _, field := range c.fields() {
			if names[field.Name] {
				// page_size is shared by both pagination styles, which cannot be composed together
				return nil, fmt.Errorf("schema %s: duplicate field %s", name, field.Name)
			}
			names[field.Name] = true
			if field.Kind == Nested && field.Schema == nil {
				return nil, fmt.Errorf("schema %s: nested field %s has no schema", name, field.Name)
			}
			if c.kind() != modelCapability {
				s.special[field.Name] = struct{}{}
			}
			s.fields = append(s.fields, field)
		}
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error, for package level schema declarations.
func MustSchema(name string, caps ...Capability) *Schema {
	s, err := NewSchema(name, caps...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewFilterSchema composes page number pagination, ordering, search, projection
// and model fields.
func NewFilterSchema(name string, orderingFields, searchFields []string, fields ...Field) (*Schema, error) {
	caps := []Capability{
		&Pagination{},
		&Ordering{Fields: orderingFields},
		&Projection{},
		&Model{Fields: fields},
	}
	if len(searchFields) > 0 {
		caps = append(caps, &Search{Fields: searchFields})
	}
	return NewSchema(name, caps...)
}

func (s *Schema) Name() string {
	return s.name
}

// Fields returns the field descriptors in declaration order.
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// IsSpecial reports whether name is owned by a capability rather than compiled
// into generic filter operations.
func (s *Schema) IsSpecial(name string) bool {
	_, ok := s.special[name]
	return ok
}

// SpecialFields returns the sorted special field names.
func (s *Schema) SpecialFields() []string {
	names := make([]string, 0, len(s.special))
	for name := range s.special {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) IsPaginated() bool      { return s.pagination != nil }
func (s *Schema) IsTokenPaginated() bool { return s.token != nil }
func (s *Schema) IsOrdered() bool        { return s.ordering != nil }
func (s *Schema) IsSearchable() bool     { return s.search != nil }
func (s *Schema) IsProjectable() bool    { return s.projection != nil }

// OrderingFields returns the allowed sort fields.
func (s *Schema) OrderingFields() []string {
	if s.ordering == nil {
		return nil
	}
	return append([]string(nil), s.ordering.Fields...)
}

// SearchFields returns the fields matched by the search query.
func (s *Schema) SearchFields() []string {
	if s.search == nil {
		return nil
	}
	return append([]string(nil), s.search.Fields...)
}

func (s *Schema) maxPageSize() int {
	switch {
	case s.pagination != nil:
		return s.pagination.maxPageSize()
	case s.token != nil:
		return s.token.maxPageSize()
	}
	return 0
}

var errNoSearchFields = errors.New("search requires at least one search field")
