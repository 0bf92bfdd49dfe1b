package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <dir> <name>",
		Short: "Read a file from managed storage and write it to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := a.manager.Get(cmd.Context())
			if err != nil {
				return err
			}

			data, err := handle.ReadFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if data == nil {
				return fmt.Errorf("%s/%s: not found", args[0], args[1])
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <dir> <name> [file]",
		Short: "Write a file into managed storage, from an argument file or stdin",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if len(args) == 3 && args[2] != "-" {
				content, err = os.ReadFile(args[2])
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			handle, err := a.manager.Get(cmd.Context())
			if err != nil {
				return err
			}
			if err := handle.WriteFile(cmd.Context(), args[0], args[1], content); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s (%d bytes, %s)\n",
				args[0], args[1], len(content), handle.Kind())
			return nil
		},
	}
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <dir>",
		Short: "List files in a managed storage directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := a.manager.Get(cmd.Context())
			if err != nil {
				return err
			}

			infos, err := handle.ListFiles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: empty\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%s\n", info.Name, info.Size, info.ModTime.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
