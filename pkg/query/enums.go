package query

// DataType is the engine data type of a binding
type DataType string

// Engine data types
const (
	DataTypeAny      DataType = "any"
	DataTypeBoolean  DataType = "boolean"
	DataTypeInteger  DataType = "integer"
	DataTypeDouble   DataType = "double"
	DataTypeDecimal  DataType = "decimal"
	DataTypeString   DataType = "string"
	DataTypeDate     DataType = "date"
	DataTypeTime     DataType = "time"
	DataTypeDateTime DataType = "datetime"
	DataTypeBlob     DataType = "blob"
)

// Engine aggregate function names
const (
	AggregateSum           = "SUM"
	AggregateCount         = "COUNT"
	AggregateCountDistinct = "COUNTDISTINCT"
	AggregateMin           = "MIN"
	AggregateMax           = "MAX"
	AggregateAverage       = "AVE"
	AggregateFirst         = "FIRST"
	AggregateLast          = "LAST"
	AggregateMedian        = "MEDIAN"
	AggregateNPV           = "NPV"
)

// Operator is an engine filter operator
type Operator string

// Engine filter operators
const (
	OperatorEqual        Operator = "eq"
	OperatorNotEqual     Operator = "ne"
	OperatorLess         Operator = "lt"
	OperatorLessEqual    Operator = "le"
	OperatorGreater      Operator = "gt"
	OperatorGreaterEqual Operator = "ge"
	OperatorBetween      Operator = "between"
	OperatorNotBetween   Operator = "not-between"
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not-in"
	OperatorLike         Operator = "like"
	OperatorMatch        Operator = "match"
	OperatorNull         Operator = "is-null"
	OperatorNotNull      Operator = "is-not-null"
	OperatorTrue         Operator = "is-true"
	OperatorFalse        Operator = "is-false"
	OperatorTopN         Operator = "top-n"
	OperatorBottomN      Operator = "bottom-n"
)

// IsList reports whether the operator takes a list operand
func (o Operator) IsList() bool {
	return o == OperatorIn || o == OperatorNotIn
}

// SortDirection is ascending or descending
type SortDirection string

const (
	// SortAscending sorts ascending
	SortAscending SortDirection = "asc"
	// SortDescending sorts descending
	SortDescending SortDirection = "desc"
)
