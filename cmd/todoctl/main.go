package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketlist/pocket-todo/cmd/todoctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "todoctl",
		Short: "Operations tool for the Pocket Todo API",
		Long:  "CLI tool for inspecting and maintaining todo records directly in the database",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewPurgeCompletedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
