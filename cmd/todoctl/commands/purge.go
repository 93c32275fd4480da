package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pocketlist/pocket-todo/internal/database"
	"github.com/spf13/cobra"
)

// NewPurgeCompletedCmd creates the purge-completed command
func NewPurgeCompletedCmd() *cobra.Command {
	var userID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge-completed",
		Short: "Delete a user's completed todos",
		Long:  "Permanently delete every completed todo owned by a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Printf("Delete all completed todos for user %s? [y/N]: ", userID)
				reader := bufio.NewReader(os.Stdin)
				answer, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewTodoRepository(db)
			deleted, err := repo.PurgeCompleted(context.Background(), userID)
			if err != nil {
				return fmt.Errorf("failed to purge completed todos: %w", err)
			}

			fmt.Printf("Deleted %d completed todos\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (identity provider subject)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
