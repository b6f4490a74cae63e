package totg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soundprediction/totg/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with default values",
	Long: `Write a starter config file populated with default values to
$HOME/.totg.yaml (or the path given with --config) for editing.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		path = filepath.Join(home, ".totg.yaml")
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := cfg.WriteFile(path); err != nil {
		return err
	}

	fmt.Printf("Config file written to: %s\n", path)
	return nil
}
