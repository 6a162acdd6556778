package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"farmops/pkg/cycle/types"
	"farmops/pkg/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [file...]",
	Short: "Validate program templates and print their stages",
	Long:  `Loads TEMPLATE_PATHS plus any files given as arguments and prints each program's stage ranges and schedules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := template.LoadFromFiles(append(cfg.TemplatePaths, args...)...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range reg.Names() {
			p, _ := reg.Get(name)
			fmt.Fprintf(out, "%s (%d days)\n", p.Name, p.TotalDays)
			for _, st := range p.Stages {
				fmt.Fprintf(out, "  day %2d-%-2d  %-15s lights %s\n", st.DayStart, st.DayEnd, st.Type.Label(), types.FormatLighting(st.Lighting))
				for _, sc := range st.Schedules {
					fmt.Fprintf(out, "             %s\n", sc.Summary())
				}
			}
		}
		return nil
	},
}
