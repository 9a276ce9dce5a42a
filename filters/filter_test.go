package filters

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inf "gopkg.in/inf.v0"
)

func userSchema(t *testing.T) *Schema {
	s, err := NewFilterSchema("user", []string{"name", "age"}, []string{"name"},
		Field{Name: "name", Kind: String},
		Field{Name: "age__gt", Kind: Int},
		Field{Name: "age__in", Kind: IntList},
	)
	require.NoError(t, err)
	return s
}

func TestFiltersEquality(t *testing.T) {
	f, err := userSchema(t).New(map[string]interface{}{"name": "John"})
	require.NoError(t, err)

	assert.Equal(t, []Operation{
		&FilterOperation{Field: "name", Operator: OpEq, Values: "John"},
	}, f.Filters())
}

func TestFiltersSkipNull(t *testing.T) {
	f, err := userSchema(t).New(map[string]interface{}{"name": nil})
	require.NoError(t, err)
	assert.Empty(t, f.Filters())
	assert.Empty(t, f.OrderBy())
}

func TestFiltersOperatorSuffix(t *testing.T) {
	f, err := userSchema(t).New(map[string]interface{}{"age__gt": 18, "age__in": []string{"1", "2"}})
	require.NoError(t, err)

	assert.Equal(t, []Operation{
		&FilterOperation{Field: "age", Operator: OpGt, Values: 18},
		&FilterOperation{Field: "age", Operator: OpIn, Values: []int{1, 2}},
	}, f.Filters())
}

func TestFiltersUnknownOperatorIsCarried(t *testing.T) {
	s := MustSchema("user", &Model{Fields: []Field{{Name: "name__sounds_like", Kind: String}}})
	f := s.MustNew(map[string]interface{}{"name__sounds_like": "jon"})

	assert.Equal(t, []Operation{
		&FilterOperation{Field: "name", Operator: Operator("sounds_like"), Values: "jon"},
	}, f.Filters())
}

func TestFiltersSearchIsAppendedLast(t *testing.T) {
	f, err := userSchema(t).New(map[string]interface{}{"query": "J", "name": "Jane"})
	require.NoError(t, err)

	assert.Equal(t, []Operation{
		&FilterOperation{Field: "name", Operator: OpEq, Values: "Jane"},
		&LogicalOperation{Operator: Or, Values: []Operation{
			&FilterOperation{Field: "name", Operator: OpILike, Values: "J"},
		}},
	}, f.Filters())
}

func TestOrderBy(t *testing.T) {
	f, err := userSchema(t).New(map[string]interface{}{"sort": []string{"name", "-age", "+name"}})
	require.NoError(t, err)

	assert.Equal(t, []*SortOperation{
		{Field: "name"},
		{Field: "age", Descending: true},
		{Field: "name"},
	}, f.OrderBy())
}

func TestNestedFilterPrefix(t *testing.T) {
	child := MustSchema("child", &Model{Fields: []Field{{Name: "x", Kind: Int}, {Name: "y__ge", Kind: Int}}})
	parent := MustSchema("parent", &Model{Fields: []Field{
		{Name: "name", Kind: String},
		{Name: "child", Kind: Nested, Schema: child},
	}})

	f, err := parent.New(map[string]interface{}{
		"name":  "p",
		"child": map[string]interface{}{"x": "1", "y__ge": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []Operation{
		&FilterOperation{Field: "name", Operator: OpEq, Values: "p"},
		&FilterOperation{Field: "child__x", Operator: OpEq, Values: 1},
		&FilterOperation{Field: "child__y", Operator: OpGe, Values: 2},
	}, f.Filters())

	// the nested instance itself is not affected by the parent compilation
	nested, _ := f.Value("child")
	assert.Equal(t, "x", nested.(*Filter).Filters()[0].(*FilterOperation).Field)
}

func TestNestedFilterInstance(t *testing.T) {
	child := MustSchema("child", &Model{Fields: []Field{{Name: "x", Kind: Int}}})
	other := MustSchema("other", &Model{Fields: []Field{{Name: "x", Kind: Int}}})
	parent := MustSchema("parent", &Model{Fields: []Field{{Name: "child", Kind: Nested, Schema: child}}})

	f, err := parent.New(map[string]interface{}{"child": child.MustNew(map[string]interface{}{"x": 3})})
	require.NoError(t, err)
	assert.Equal(t, "child__x", f.Filters()[0].(*FilterOperation).Field)

	_, err = parent.New(map[string]interface{}{"child": other.MustNew(map[string]interface{}{"x": 3})})
	assert.Error(t, err)
}

func TestNestedValidationErrorIsPrefixed(t *testing.T) {
	child := MustSchema("child", &Model{Fields: []Field{{Name: "x", Kind: Int}}})
	parent := MustSchema("parent", &Model{Fields: []Field{{Name: "child", Kind: Nested, Schema: child}}})

	_, err := parent.New(map[string]interface{}{"child": map[string]interface{}{"x": "abc"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "child__x", verr.Errors[0].Field)
}

func TestCompilationIsIdempotent(t *testing.T) {
	child := MustSchema("child", &Model{Fields: []Field{{Name: "x", Kind: Int}}})
	s := MustSchema("parent",
		&Model{Fields: []Field{{Name: "name", Kind: String}, {Name: "child", Kind: Nested, Schema: child}}},
		&Ordering{Fields: []string{"name"}},
		&Search{Fields: []string{"name", "email"}},
	)
	f := s.MustNew(map[string]interface{}{
		"name":  "John",
		"child": map[string]interface{}{"x": 1},
		"query": "jo",
		"sort":  []string{"-name"},
	})

	assert.Equal(t, f.Filters(), f.Filters())
	assert.Equal(t, f.OrderBy(), f.OrderBy())

	// modifying the result does not leak into the next compilation
	f.Filters()[0].SetPrefix("owner")
	assert.Equal(t, "name", f.Filters()[0].(*FilterOperation).Field)
}

func TestSetPrefixTwiceDoublePrefixes(t *testing.T) {
	op := &LogicalOperation{Operator: And, Values: []Operation{
		&FilterOperation{Field: "x", Operator: OpEq, Values: 1},
		&LogicalOperation{Operator: Or, Values: []Operation{&FilterOperation{Field: "y", Operator: OpEq, Values: 2}}},
	}}
	op.SetPrefix("a")
	op.SetPrefix("b")

	assert.Equal(t, "b__a__x", op.Values[0].(*FilterOperation).Field)
	assert.Equal(t, "b__a__y", op.Values[1].(*LogicalOperation).Values[0].(*FilterOperation).Field)
}

func TestValidationRejectsUnknownSort(t *testing.T) {
	s := MustSchema("user", &Ordering{Fields: []string{"name"}})

	_, err := s.New(map[string]interface{}{"sort": []string{"unknown"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "sort", verr.Errors[0].Field)
	assert.Equal(t, "Unknown sort value 'unknown'. Allowed values: name", verr.Errors[0].Message)
	assert.Equal(t, "unknown", verr.Errors[0].Value)

	_, err = s.New(map[string]interface{}{"sort": []string{"-name", "+name"}})
	assert.NoError(t, err)
}

func TestValidationPagination(t *testing.T) {
	s := MustSchema("user", &Pagination{MaxPageSize: 50})

	tests := []struct {
		name   string
		values map[string]interface{}
		fields []string
	}{
		{"defaults", map[string]interface{}{}, nil},
		{"max page size", map[string]interface{}{"page_size": 50}, nil},
		{"page size too large", map[string]interface{}{"page_size": 51}, []string{"page_size"}},
		{"page size zero", map[string]interface{}{"page_size": 0}, []string{"page_size"}},
		{"page zero", map[string]interface{}{"page": "0"}, []string{"page"}},
		{"both", map[string]interface{}{"page": -1, "page_size": -1}, []string{"page", "page_size"}},
		{"not a number", map[string]interface{}{"page": "first"}, []string{"page"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.New(tt.values)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestDefaultPageSizeIsNotValidated(t *testing.T) {
	f, err := MustSchema("user", &Pagination{MaxPageSize: 50}).New(map[string]interface{}{"page": "2"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, f.PageSize())

	token := MustSchema("user", &TokenPagination{MaxPageSize: 20})
	_, err = token.New(nil)
	assert.NoError(t, err)

	_, err = token.New(map[string]interface{}{"page_size": 21})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, PageSizeField, verr.Errors[0].Field)
}

func TestPaginationValues(t *testing.T) {
	s := MustSchema("user", &Pagination{DefaultPageSize: 20})

	f := s.MustNew(nil)
	assert.Equal(t, 1, f.Page())
	assert.Equal(t, 20, f.PageSize())
	assert.Equal(t, 0, f.Offset())

	f = s.MustNew(map[string]interface{}{"page": "3", "page_size": " 10 "})
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, 10, f.Limit())
	assert.True(t, f.IsPaginated())
	assert.False(t, f.IsTokenPaginated())
	assert.False(t, f.IsOrdered())
}

func TestTokenPaginationDecodesToken(t *testing.T) {
	s := MustSchema("user", &TokenPagination{})

	f := s.MustNew(map[string]interface{}{"page_token": EncodeCursor("20")})
	token, ok := f.PageToken()
	assert.True(t, ok)
	assert.Equal(t, "20", token)

	f = s.MustNew(map[string]interface{}{"page_token": "%%%"})
	token, _ = f.PageToken()
	assert.Equal(t, "%%%", token)

	f = s.MustNew(nil)
	_, ok = f.PageToken()
	assert.False(t, ok)
}

func TestProjection(t *testing.T) {
	s := MustSchema("user", &Projection{Allowed: []string{"id", "name"}})

	f := s.MustNew(map[string]interface{}{"fields": []string{"name"}})
	assert.Equal(t, []string{"name"}, f.Fields())

	_, err := s.New(map[string]interface{}{"fields": []string{"name", "password"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Unknown field 'password'", verr.Errors[0].Message)

	open := MustSchema("user", &Projection{})
	assert.Equal(t, []string{"anything"}, open.MustNew(map[string]interface{}{"fields": "anything"}).Fields())
}

func TestCoercion(t *testing.T) {
	s := MustSchema("item", &Model{Fields: []Field{
		{Name: "active", Kind: Bool},
		{Name: "price__ge", Kind: Decimal},
		{Name: "weight__lt", Kind: Float},
		{Name: "created__gt", Kind: Time},
		{Name: "tags__in", Kind: StringList},
		{Name: "status", Kind: String, Default: "open"},
	}})

	f, err := s.New(map[string]interface{}{
		"active":      "true",
		"price__ge":   "10.50",
		"weight__lt":  "2.5",
		"created__gt": "2024-01-02T03:04:05Z",
		"tags__in":    "a",
	})
	require.NoError(t, err)

	active, _ := f.Value("active")
	assert.Equal(t, true, active)
	price, _ := f.Value("price__ge")
	assert.Equal(t, 0, price.(*inf.Dec).Cmp(inf.NewDec(1050, 2)))
	weight, _ := f.Value("weight__lt")
	assert.Equal(t, 2.5, weight)
	created, _ := f.Value("created__gt")
	assert.True(t, created.(time.Time).Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	tags, _ := f.Value("tags__in")
	assert.Equal(t, []string{"a"}, tags)
	status, _ := f.Value("status")
	assert.Equal(t, "open", status)

	_, err = s.New(map[string]interface{}{"price__ge": "ten", "active": "maybe"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
	assert.Equal(t, "active must be a valid boolean", verr.Errors[0].Message)
	assert.Equal(t, "price__ge must be a valid decimal", verr.Errors[1].Message)
}

func TestSpecialFields(t *testing.T) {
	s := userSchema(t)
	assert.Equal(t, []string{"fields", "page", "page_size", "query", "sort"}, s.SpecialFields())
	assert.True(t, s.IsSpecial("sort"))
	assert.False(t, s.IsSpecial("name"))
	assert.True(t, s.IsSearchable())
	assert.True(t, s.IsProjectable())
	assert.Equal(t, []string{"name", "age"}, s.OrderingFields())
	assert.Equal(t, []string{"name"}, s.SearchFields())
}

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		caps []Capability
	}{
		{"both paginations", []Capability{&Pagination{}, &TokenPagination{}}},
		{"capability twice", []Capability{&Ordering{}, &Ordering{}}},
		{"search without fields", []Capability{&Search{}}},
		{"duplicate field", []Capability{&Ordering{}, &Model{Fields: []Field{{Name: "sort", Kind: String}}}}},
		{"nested without schema", []Capability{&Model{Fields: []Field{{Name: "child", Kind: Nested}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema("invalid", tt.caps...)
			assert.Error(t, err)
		})
	}
}

func TestCapabilityOrderDoesNotMatter(t *testing.T) {
	fields := []Field{{Name: "name", Kind: String}}
	a := MustSchema("a", &Search{Fields: []string{"name"}}, &Model{Fields: fields})
	b := MustSchema("b", &Model{Fields: fields}, &Search{Fields: []string{"name"}})

	values := map[string]interface{}{"name": "x", "query": "y"}
	assert.Equal(t, a.MustNew(values).Filters(), b.MustNew(values).Filters())
	assert.Equal(t, a.Fields(), b.Fields())
}

func TestSplitOperator(t *testing.T) {
	tests := []struct {
		name  string
		field string
		op    Operator
	}{
		{"name", "name", OpEq},
		{"age__gt", "age", OpGt},
		{"owner__name__ilike", "owner", Operator("name__ilike")},
		{"deleted_at__is_null", "deleted_at", OpIsNull},
	}
	for _, tt := range tests {
		field, op := SplitOperator(tt.name)
		assert.Equal(t, tt.field, field, tt.name)
		assert.Equal(t, tt.op, op, tt.name)
	}
}

func TestParseKind(t *testing.T) {
	for name, kind := range map[string]Kind{
		"string":          String,
		"int":             Int,
		"integer":         Int,
		" Number ":        Float,
		"bool":            Bool,
		"datetime":        Time,
		"decimal":         Decimal,
		"string_list":     StringList,
		"list of numbers": FloatList,
	} {
		parsed, err := ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, kind, parsed, name)
	}

	_, err := ParseKind("nested filter")
	assert.EqualError(t, err, "unknown field kind 'nested filter'")
}
