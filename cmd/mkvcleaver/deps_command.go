package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check mkvtoolnix executables and workspace directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.ToolnixRequirements(cfg))
			statuses = append(statuses,
				deps.CheckDirectoryAccess("Workspace", cfg.Paths.WorkspaceDir),
				deps.CheckDirectoryAccess("Logs", cfg.Paths.LogDir),
			)
			if cfg.Paths.OutputDir != "" {
				statuses = append(statuses, deps.CheckDirectoryAccess("Output", cfg.Paths.OutputDir))
			}

			out := cmd.OutOrStdout()
			p := newPalette(out)
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := p.ok.Sprint("ok")
				if !s.Available {
					state = p.fail.Sprint("missing")
					if s.Optional {
						state = p.warn.Sprint("optional")
					}
				}
				detail := s.Detail
				if detail == "" {
					detail = s.Command
				}
				rows = append(rows, []string{s.Name, state, detail, s.Description})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Status", "Detail", "Purpose"}, rows, nil))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return errors.New("some dependencies are unavailable")
			}
			return nil
		},
	}
}
