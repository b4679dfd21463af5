// Package main provides the stylefmt entry point.
//
// The pipeline for each file is:
// 1. Line input (line ends recorded for the output)
// 2. Token reformatting (brackets, padding, line breaks)
// 3. Indentation
// 4. Post-pass fixes (case blocks, event tables, SQL sections)
// 5. Checksum verification before the file is replaced
package main

import (
	"os"

	"github.com/hassan/stylefmt/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
