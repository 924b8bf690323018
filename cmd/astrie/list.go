package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered notations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, catalog, regs, err := setup(cmd, o)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"NOTATION", "READ", "WRITE", "EXTENSION", "FLATTEN", "LIFT"}}

			keys := dedupe(append(regs.Frontends.Keys(), regs.Backends.Keys()...))
			slices.Sort(keys)

			for _, key := range keys {
				ext, flatten, lift := "", "", ""
				if t, ok := catalog.Get(key); ok {
					ext = t.FileExt
					flatten = strconv.FormatBool(t.Capabilities.Flatten)
					lift = strconv.FormatBool(t.Capabilities.LiftSumTypes)
				}

				data = append(data, []string{key, mark(regs.Frontends.Has(key)), mark(regs.Backends.Has(key)), ext, flatten, lift})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)

			return err
		},
	}
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}

	return "-"
}
