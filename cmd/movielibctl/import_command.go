package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"movie-library/internal/fsio"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import movies from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := fsio.OS{}
			path := args[0]
			if !fs.Exists(path) {
				return errors.Errorf("no such file: %s", path)
			}
			text, err := fs.Read(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			im, _ := newPipeline()
			summary, err := im.Run(text)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"created", "skipped", "failed"})
			tw.AppendRow(table.Row{
				strconv.Itoa(summary.Created),
				strconv.Itoa(summary.Skipped),
				strconv.Itoa(summary.Failed),
			})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())

			for _, w := range summary.Warnings {
				fmt.Fprintln(cmd.OutOrStdout(), "warning:", w)
			}
			return nil
		},
	}
}
