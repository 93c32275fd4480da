package commands

import (
	"fmt"
	"os"

	"github.com/pocketlist/pocket-todo/internal/database"
)

// openDatabase connects using DATABASE_URL. The tool talks to Postgres
// directly and never needs the identity configuration the server requires.
func openDatabase() (*database.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.New(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}
