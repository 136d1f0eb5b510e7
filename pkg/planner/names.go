package planner

import (
	"fmt"
	"strings"
)

// NameAllocator generates unique binding names for expressions used without a declared binding
type NameAllocator interface {
	Allocate(expr string, taken func(name string) bool) string
}

// DefaultNameAllocator derives the name from the expression with its quotes removed, adding a
// numeric suffix until the name is free
type DefaultNameAllocator struct{}

// Allocate implements NameAllocator
func (DefaultNameAllocator) Allocate(expr string, taken func(name string) bool) string {
	base := strings.TrimSpace(strings.ReplaceAll(expr, `"`, ""))
	if base == "" {
		base = "column"
	}

	name := base
	for i := 1; taken(name); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}

	return name
}
