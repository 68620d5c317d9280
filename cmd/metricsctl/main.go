// Package main is the entry point for the metricsctl CLI tool.
package main

import (
	"github.com/cyphera/cyphera-metrics/internal/cmd"
)

func main() {
	cmd.Execute()
}
