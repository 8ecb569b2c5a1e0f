package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/gostage/cmd/gostage"
	"github.com/arthur-debert/gostage/internal/version"
)

func main() {
	rootCmd := gostage.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "GOSTAGE",
		Section: "1",
		Source:  "gostage " + version.Version,
		Manual:  "gostage manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
