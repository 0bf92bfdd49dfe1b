package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rboyd0/agentstore/internal/agents"
)

func newAgentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Discover agent manifests and report load failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := a.manager.Get(cmd.Context())
			if err != nil {
				return err
			}

			loader := agents.NewLoader(handle, a.cfg.AgentsDir, a.logger.With("component", "agents"))
			reg := agents.BuildRegistry(cmd.Context(), a.logger, loader)

			names := reg.Names()
			if len(names) == 0 && len(reg.LoadErrors()) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no agent manifests found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tENTRYPOINT\tDESCRIPTION")
			for _, name := range names {
				m, _ := reg.Get(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Version, m.Entrypoint, m.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if errs := reg.LoadErrors(); len(errs) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d manifest(s) failed to load:\n", len(errs))
				for _, e := range errs {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", e.Error())
				}
			}
			return nil
		},
	}
}
