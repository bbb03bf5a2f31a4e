// Package main provides the mdxgen command.
package main

import (
	"os"

	"github.com/example/mdxgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
