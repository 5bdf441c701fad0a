package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newReflectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Build the reflection database and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, report, err := root.loadDatabase()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("reflect needs --api-dump")
			}

			out := cmd.OutOrStdout()
			s := db.Stats()
			fmt.Fprintf(out, "version:    %s\n", db.Version())
			fmt.Fprintf(out, "classes:    %d\n", s.Classes)
			fmt.Fprintf(out, "properties: %d\n", s.Properties)
			fmt.Fprintf(out, "defaults:   %d\n", s.Defaults)
			fmt.Fprintf(out, "enums:      %d\n", s.Enums)
			if report != nil {
				fmt.Fprintf(out, "capture:    %d messages, %d merged, %d unknown, %d excluded, %d rejected\n",
					report.Messages, report.Merged, report.Unknown, report.Excluded, report.Rejected)
				if len(report.UnknownClasses) > 0 {
					fmt.Fprintf(out, "unknown classes: %v\n", report.UnknownClasses)
				}
			}
			return nil
		},
	}
}
