package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esperstack/esper-mail/internal/imapcli"
)

// providersCmd lists the built-in IMAP presets.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List built-in IMAP provider presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range imapcli.Providers() {
			fmt.Printf("%-8s  %s:%d  %s\n", p.Name, p.Host, p.Port, p.Notes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
