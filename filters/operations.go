package filters

// Operator is the comparison token of a FilterOperation. The compiler does not
// check it against any list, resolvers do.
type Operator string

const (
	OpEq     Operator = "eq"
	OpNe     Operator = "ne"
	OpLt     Operator = "lt"
	OpLe     Operator = "le"
	OpGt     Operator = "gt"
	OpGe     Operator = "ge"
	OpIn     Operator = "in"
	OpNotIn  Operator = "not_in"
	OpIsNull Operator = "is_null"
	OpLike   Operator = "like"
	OpILike  Operator = "ilike"
)

// LogicalOperator combines the children of a LogicalOperation
type LogicalOperator string

const (
	And LogicalOperator = "and"
	Or  LogicalOperator = "or"
)

// PrefixSeparator joins a relation name and a field name
const PrefixSeparator = "__"

// Operation is a backend independent filter or sort directive.
type Operation interface {
	// SetPrefix rewrites the field as "{prefix}__{field}". Calling it twice prefixes twice.
	SetPrefix(prefix string)
}

// FilterOperation is a single comparison of Field against Values.
type FilterOperation struct {
	Field    string
	Operator Operator
	Values   interface{}
}

func (o *FilterOperation) SetPrefix(prefix string) {
	o.Field = prefix + PrefixSeparator + o.Field
}

// SortOperation is one sort key.
type SortOperation struct {
	Field      string
	Descending bool
}

func (o *SortOperation) SetPrefix(prefix string) {
	o.Field = prefix + PrefixSeparator + o.Field
}

// LogicalOperation groups filter or logical operations under and/or.
type LogicalOperation struct {
	Operator LogicalOperator
	Values   []Operation
}

func (o *LogicalOperation) SetPrefix(prefix string) {
	for _, value := range o.Values {
		value.SetPrefix(prefix)
	}
}
