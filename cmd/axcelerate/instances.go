package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var instanceFlags = []flagParam{
	{flag: "public", param: "public"},
	{flag: "current", param: "current"},
	{flag: "active", param: "active"},
	{flag: "updated-after", param: "updatedAfter"},
	{flag: "updated-before", param: "updatedBefore"},
}

func (c *cli) instancesCommand() *cobra.Command {
	var (
		courseType string
		ids        []int
	)

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List the instances of one or more courses",
		Long: `List course instances. With several --id flags the courses are fetched
concurrently and the output is an array with one LMS response per course, in
the order given.`,
		Example: `  axcelerate instances --type w --id 1234
  axcelerate instances --type w --id 1234 --id 5678 --current true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(ids) == 0 {
				return errors.New("at least one --id is required")
			}

			client, err := c.client()
			if err != nil {
				return err
			}

			filters := changedParams(cmd.Flags(), instanceFlags)

			if len(ids) == 1 {
				resp, err := client.GetCourseInstances(cmd.Context(),
					filters.With("type", courseType).With("id", ids[0]))
				if err != nil {
					return err
				}

				return c.printJSON(resp.Body)
			}

			responses, err := client.InstancesForCourses(cmd.Context(), courseType, ids, filters)
			if err != nil {
				return err
			}

			bodies := make([]json.RawMessage, len(responses))
			for i, resp := range responses {
				bodies[i] = resp.Body
			}

			return c.printJSON(bodies)
		},
	}

	cmd.Flags().StringVar(&courseType, "type", "w", "course type: w (workshop), p (program) or el (e-learning)")
	cmd.Flags().IntSliceVar(&ids, "id", nil, "course ID (repeatable)")
	cmd.Flags().String("public", "", "only public instances")
	cmd.Flags().String("current", "", "only current instances")
	cmd.Flags().String("active", "", "only active instances")
	cmd.Flags().String("updated-after", "", "updated at or after (YYYY-MM-DD[ hh:mm])")
	cmd.Flags().String("updated-before", "", "updated at or before (YYYY-MM-DD[ hh:mm])")

	return cmd
}
