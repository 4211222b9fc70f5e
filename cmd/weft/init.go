package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/weft-ui/weft/internal/config"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a weft.json in the given directory",
		Long: `Create a default weft.json configuration file.

Examples:
  weft init
  weft init ./my-elements --name my-elements`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")

	return cmd
}

func runInit(dir, name string) error {
	if config.Exists(dir) {
		return fmt.Errorf("%s already exists in %s", config.ConfigFileName, dir)
	}

	cfg := config.New()
	if name != "" {
		cfg.Name = name
	} else {
		abs, err := filepath.Abs(dir)
		if err == nil {
			cfg.Name = filepath.Base(abs)
		}
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("Created %s", path)
	info("Run 'weft serve' to start the dev server")
	return nil
}
