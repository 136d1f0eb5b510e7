// Package main is the entry point for the cubeplan application
package main

import (
	"github.com/ethpandaops/cubeplan/cmd"
)

func main() {
	cmd.Execute()
}
