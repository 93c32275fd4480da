package commands

import (
	"context"
	"fmt"

	"github.com/pocketlist/pocket-todo/internal/database"
	"github.com/pocketlist/pocket-todo/internal/todo"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion stats for a user",
		Long:  "Show counts and the completion percentage for a user's todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewTodoRepository(db)
			todos, err := repo.List(context.Background(), userID)
			if err != nil {
				return fmt.Errorf("failed to list todos: %w", err)
			}

			pending, completed := todo.Partition(todos)

			fmt.Printf("Total:     %d\n", len(todos))
			fmt.Printf("Pending:   %d\n", len(pending))
			fmt.Printf("Completed: %d\n", len(completed))
			fmt.Printf("Progress:  %d%%\n", todo.ProgressPercent(todos))

			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (identity provider subject)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
