package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigToolnixCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Set toolnix.dir (or export %s) if mkvtoolnix is not in /usr/bin or on PATH.\n", config.ToolnixDirEnv)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if _, err := os.Stat(ctx.configPath); err != nil {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Workspace: %s\n", cfg.Paths.WorkspaceDir)
			toolnix := cfg.Toolnix.Dir
			if toolnix == "" {
				toolnix = "not found"
			}
			fmt.Fprintf(out, "Toolnix: %s\n", toolnix)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigToolnixCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toolnix [dir]",
		Short: "Show or set the mkvtoolnix directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if cfg.Toolnix.Dir == "" {
					fmt.Fprintln(out, "mkvtoolnix directory not configured or detected")
					return nil
				}
				fmt.Fprintln(out, cfg.Toolnix.Dir)
				if err := config.ValidateToolnixDir(cfg.Toolnix.Dir); err != nil {
					fmt.Fprintf(out, "warning: %v\n", err)
				}
				fmt.Fprintf(out, "Binaries: %s, %s\n", cfg.MkvinfoBinary(), cfg.MkvextractBinary())
				return nil
			}

			target := ctx.configPath
			if target == "" {
				if target, err = configTarget(""); err != nil {
					return err
				}
			}
			dir, err := config.SaveToolnixDir(target, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved toolnix.dir = %s to %s\n", dir, target)
			return nil
		},
	}
}

func configTarget(path string) (string, error) {
	if target := strings.TrimSpace(path); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return defaultPath, nil
}
