// Package testutil provides test utilities for cubeplan, including:
//   - Cube catalog and report fixtures shared by planner, span and cache tests (fixtures.go)
//   - Miniredis helpers for plan cache tests (miniredis.go)
package testutil
