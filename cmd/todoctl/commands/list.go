package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pocketlist/pocket-todo/internal/database"
	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var userID string
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's todos",
		Long:  "List all todo records owned by a user, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "table" && output != "json" && output != "yaml" {
				return fmt.Errorf("invalid output format %q: must be table, json, or yaml", output)
			}

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

			switch output {
			case "json":
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(todos)
			case "yaml":
				return yaml.NewEncoder(os.Stdout).Encode(todos)
			default:
				printTable(todos)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (identity provider subject)")
	cmd.Flags().StringVar(&output, "output", "table", "Output format: table, json, or yaml")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printTable(todos []*models.Todo) {
	if len(todos) == 0 {
		fmt.Println("No todos found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tDUE\tDONE\tCREATED")
	for _, t := range todos {
		due := "-"
		if t.DueDate != nil && t.DueTime != nil {
			due = *t.DueDate + " " + *t.DueTime
		} else if t.DueDate != nil {
			due = *t.DueDate
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			t.ID, t.Title, t.Category, due, t.Completed, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}
