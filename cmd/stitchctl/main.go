package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "stitchctl",
		Short:        "Compose panoramas from local image files",
		SilenceUsage: true,
	}

	root.AddCommand(newComposeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
