package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/committed/internal/config"
	"github.com/dshills/committed/internal/gitctx"
	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage committed configuration",
	}

	var initGlobal bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetConfigFile(initGlobal)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s\n", path)
				return nil
			}

			if err := config.Save(path, config.Default().Layer()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Write to the user config directory instead of the work tree")

	var setGlobal bool
	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value in the config file. Keys: " + fmt.Sprint(config.Keys),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.editableConfigFile(setGlobal)
			if err != nil {
				return err
			}

			var layer config.Layer
			if _, statErr := os.Stat(path); statErr == nil {
				if layer, err = config.LoadFile(path); err != nil {
					return configError(err)
				}
			}

			if err := config.SetField(&layer, args[0], args[1]); err != nil {
				return configError(err)
			}

			if err := config.Save(path, layer); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
	setCmd.Flags().BoolVar(&setGlobal, "global", false, "Edit the user config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _ := gitctx.Open(a.opts.workTree)
			path, err := a.configFile(repo)
			if err != nil {
				return configError(err)
			}
			cfg, err := config.Load(path, config.Layer{})
			if err != nil {
				return configError(err)
			}

			out := cmd.OutOrStdout()
			if path != "" {
				fmt.Fprintf(out, "# %s\n", path)
			} else {
				fmt.Fprintln(out, "# defaults")
			}
			return config.Encode(out, cfg.Layer(), config.FormatTOML)
		},
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(showCmd)
	return configCmd
}

// targetConfigFile is where `config init` writes: committed.toml in the work
// tree root, or in the user config directory.
func (a *app) targetConfigFile(global bool) (string, error) {
	if a.opts.configPath != "" {
		return a.opts.configPath, nil
	}
	if global {
		dir, err := config.ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, config.FileName), nil
	}
	repo, err := gitctx.Open(a.opts.workTree)
	if err != nil && !errors.Is(err, gitctx.ErrNotRepository) {
		return "", err
	}
	return filepath.Join(a.workTreeRoot(repo), config.FileName), nil
}

// editableConfigFile is the file `config set` edits: the one a check would
// load when it lives in the work tree, else the init target.
func (a *app) editableConfigFile(global bool) (string, error) {
	if global || a.opts.configPath != "" {
		return a.targetConfigFile(global)
	}
	repo, _ := gitctx.Open(a.opts.workTree)
	path, err := a.configFile(repo)
	if err != nil {
		return "", configError(err)
	}
	if path != "" && isWithin(a.workTreeRoot(repo), path) {
		return path, nil
	}
	return a.targetConfigFile(false)
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
