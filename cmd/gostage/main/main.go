package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/gostage/cmd/gostage"
	"github.com/arthur-debert/gostage/pkg/style"
)

func main() {
	rootCmd := gostage.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
