// Package main provides the astrie command line.
//
// astrie reads a schema in one notation, normalizes it for each requested
// output and writes the declarations in every output notation:
//
//	astrie shop.hcl --out-rs --out-ts --out-dir gen/
//	cat shop.json | astrie - --ext json --out go
package main

import (
	"fmt"
	"os"

	"astrie/internal/errors"
	"astrie/internal/logger"
)

func main() {
	cmd, err := newRootCmd()
	if err == nil {
		err = cmd.Execute()
	}

	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}

		os.Exit(1)
	}
}
