package cmd

import (
	"fmt"

	"github.com/rzbill/signcfg/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the signcfg version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == outputTable {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
				return err
			}
			return writeStructured(cmd.OutOrStdout(), version.Get(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: json or yaml")
	return cmd
}
