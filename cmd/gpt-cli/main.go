// Package main is the gpt-cli entry point: a conversational CLI with tool
// use and skills.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "gpt-cli",
		Short:         "A conversational GPT CLI with Tool Use and Skills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChatCommand())

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
