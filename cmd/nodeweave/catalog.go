package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/nodeweave/core/model"
	"github.com/ingyamilmolinar/nodeweave/internal/catalog"
)

var (
	headerStyle = color.New(color.FgCyan, color.Bold)
	subtleStyle = color.New(color.FgHiBlack)
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the node templates of the loaded catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := setup()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(logger, catalogPaths...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			category := "\x00"
			for _, nt := range cat.Templates() {
				t := nt.(*catalog.Template)
				if t.Category != category {
					category = t.Category
					name := category
					if name == "" {
						name = "Uncategorized"
					}
					headerStyle.Fprintln(out, name)
				}
				fmt.Fprintf(out, "  %-22s %s\n", t.Label(), subtleStyle.Sprint(signature(t)))
			}
			return nil
		},
	}
}

// signature renders a template as "(a: scalar = 0, ...) -> (out: scalar)".
func signature(t *catalog.Template) string {
	var ins, outs []string
	for _, in := range t.Inputs {
		s := fmt.Sprintf("%s: %s", in.Name, in.Type)
		if in.Kind != model.ConnectionOnly {
			s += " = " + catalog.FormatValue(in.Default)
		}
		ins = append(ins, s)
	}
	for _, out := range t.Outputs {
		outs = append(outs, fmt.Sprintf("%s: %s", out.Name, out.Type))
	}
	return "(" + strings.Join(ins, ", ") + ") -> (" + strings.Join(outs, ", ") + ")"
}
