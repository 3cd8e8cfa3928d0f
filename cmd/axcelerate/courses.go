package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jsamuelsen/axcelerate-go/pkg/axcelerate"
)

// flagParam maps a CLI flag onto an LMS query parameter.
type flagParam struct {
	flag  string
	param string

	// always sends the flag's default when it was not set
	always bool
}

// changedParams collects the flags the user set, plus those marked always,
// in declaration order. Other flags are left out so the LMS applies its own
// defaults.
func changedParams(flags *pflag.FlagSet, mapping []flagParam) axcelerate.Params {
	var p axcelerate.Params

	for _, m := range mapping {
		f := flags.Lookup(m.flag)
		if f == nil || !(f.Changed || m.always) {
			continue
		}

		p = p.With(m.param, f.Value.String())
	}

	return p
}

var courseFlags = []flagParam{
	{flag: "type", param: "type", always: true},
	{flag: "id", param: "ID"},
	{flag: "current", param: "current"},
	{flag: "public", param: "public"},
	{flag: "active", param: "IsActive"},
	{flag: "updated-after", param: "lastUpdated_min"},
	{flag: "updated-before", param: "lastUpdated_max"},
}

func (c *cli) coursesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses",
		Long: `List courses from the LMS. Boolean filters accept true, false, 1, 0, yes and
no; dates use YYYY-MM-DD or YYYY-MM-DD hh:mm.`,
		Example: `  axcelerate courses --type w --current true
  axcelerate courses --updated-after "2024-01-01 00:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}

			resp, err := client.GetCourses(cmd.Context(), changedParams(cmd.Flags(), courseFlags))
			if err != nil {
				return err
			}

			return c.printJSON(resp.Body)
		},
	}

	cmd.Flags().String("type", "all", "course type: w (workshop), p (program), el (e-learning) or all")
	cmd.Flags().Int("id", 0, "course ID")
	cmd.Flags().String("current", "", "only current courses")
	cmd.Flags().String("public", "", "only public courses")
	cmd.Flags().String("active", "", "only active courses")
	cmd.Flags().String("updated-after", "", "updated at or after (YYYY-MM-DD[ hh:mm])")
	cmd.Flags().String("updated-before", "", "updated at or before (YYYY-MM-DD[ hh:mm])")

	return cmd
}
