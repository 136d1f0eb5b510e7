package planner

import (
	"strings"

	"github.com/ethpandaops/cubeplan/pkg/query"
)

//nolint:gochecknoglobals // Read-only lookup tables
var (
	modelDataTypes = map[string]query.DataType{
		"any":        query.DataTypeAny,
		"boolean":    query.DataTypeBoolean,
		"integer":    query.DataTypeInteger,
		"float":      query.DataTypeDouble,
		"double":     query.DataTypeDouble,
		"decimal":    query.DataTypeDecimal,
		"string":     query.DataTypeString,
		"date":       query.DataTypeDate,
		"time":       query.DataTypeTime,
		"date-time":  query.DataTypeDateTime,
		"datetime":   query.DataTypeDateTime,
		"blob":       query.DataTypeBlob,
		"javaObject": query.DataTypeAny,
	}

	modelAggregations = map[string]string{
		"sum":           query.AggregateSum,
		"count":         query.AggregateCount,
		"countdistinct": query.AggregateCountDistinct,
		"min":           query.AggregateMin,
		"max":           query.AggregateMax,
		"average":       query.AggregateAverage,
		"ave":           query.AggregateAverage,
		"first":         query.AggregateFirst,
		"last":          query.AggregateLast,
		"median":        query.AggregateMedian,
		"npv":           query.AggregateNPV,
	}

	modelOperators = map[string]query.Operator{
		"eq":          query.OperatorEqual,
		"ne":          query.OperatorNotEqual,
		"lt":          query.OperatorLess,
		"le":          query.OperatorLessEqual,
		"gt":          query.OperatorGreater,
		"ge":          query.OperatorGreaterEqual,
		"between":     query.OperatorBetween,
		"not-between": query.OperatorNotBetween,
		"in":          query.OperatorIn,
		"not-in":      query.OperatorNotIn,
		"like":        query.OperatorLike,
		"match":       query.OperatorMatch,
		"null":        query.OperatorNull,
		"not-null":    query.OperatorNotNull,
		"true":        query.OperatorTrue,
		"false":       query.OperatorFalse,
		"top-n":       query.OperatorTopN,
		"bottom-n":    query.OperatorBottomN,
	}
)

// adaptDataType maps a report data type to the engine type; unknown types are untyped
func adaptDataType(modelType string) query.DataType {
	if t, ok := modelDataTypes[modelType]; ok {
		return t
	}

	return query.DataTypeAny
}

// adaptAggregation maps a report aggregate function to the engine function name
func adaptAggregation(function string) string {
	if function == "" {
		return ""
	}
	if name, ok := modelAggregations[strings.ToLower(function)]; ok {
		return name
	}

	return strings.ToUpper(function)
}

// adaptOperator maps a report filter operator to the engine operator
func adaptOperator(operator string) query.Operator {
	if op, ok := modelOperators[strings.ToLower(operator)]; ok {
		return op
	}

	return query.Operator(operator)
}
