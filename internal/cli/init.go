package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/telephone/internal/config"
	"github.com/example/telephone/internal/db"
	"github.com/example/telephone/internal/version"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the telephone database",
		Long:  `Initialize the telephone database at ~/.telephone/telephone.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing telephone database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at ~/.telephone/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  telephone game create --chains 4 --name \"My First Game\"")
			fmt.Println("  telephone game list")

			return nil
		},
	}
}

// initConfig writes the default config.json unless one already exists.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	path := filepath.Join(home, ".telephone", "config.json")
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists, skip
	}

	mediaRoot, err := config.DefaultMediaRoot()
	if err != nil {
		return err
	}

	return config.SaveConfig(home, &config.Config{
		Version:   version.String(),
		MediaRoot: mediaRoot,
	})
}
