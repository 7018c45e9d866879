package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the esper-mail version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("esper-mail", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
