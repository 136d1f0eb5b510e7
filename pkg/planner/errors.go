package planner

import "errors"

// Plan construction errors
var (
	ErrMissingCubeBinding         = errors.New("no cube bound to container")
	ErrUnresolvableLevelReference = errors.New("unresolvable level reference")
	ErrUnresolvableMeasure        = errors.New("unresolvable measure reference")
	ErrBindingCycle               = errors.New("binding reference cycle")
	ErrTooManyDimensions          = errors.New("more than two grouping dimensions referenced")
	ErrNilContainer               = errors.New("container is nil")
)

// errorType labels an error for metrics
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrMissingCubeBinding):
		return "missing_cube"
	case errors.Is(err, ErrUnresolvableLevelReference):
		return "unresolvable_level"
	case errors.Is(err, ErrUnresolvableMeasure):
		return "unresolvable_measure"
	case errors.Is(err, ErrBindingCycle):
		return "binding_cycle"
	case errors.Is(err, ErrTooManyDimensions):
		return "too_many_dimensions"
	default:
		return "other"
	}
}
