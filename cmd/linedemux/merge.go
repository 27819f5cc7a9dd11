package main

import (
	"github.com/spf13/cobra"

	"github.com/nakario/linedemux"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <avg-file> <max-file>",
		Short: "Interleave the two outputs of a split back into the original lines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup(cmd)
			if err != nil {
				return err
			}
			n, err := linedemux.Merge(args[0], args[1], cmd.OutOrStdout())
			if err != nil {
				log.WithError(err).Error("Error merging files")
				return err
			}
			log.WithField("lines", n).Debug("merge complete")
			return nil
		},
	}
}
