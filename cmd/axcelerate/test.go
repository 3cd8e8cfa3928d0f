package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) testCommand() *cobra.Command {
	var overview bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the connection to the LMS",
		Long: `Call the API root with the configured tokens and print the response.
Exits non-zero when the tenant cannot be reached or rejects the tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return c.connectionFailed(err)
			}

			fmt.Fprintf(c.stdout, "Testing connection to %s...\n", client.BaseURL())

			resp, err := client.TestConnection(cmd.Context())
			if err != nil {
				return c.connectionFailed(err)
			}

			fmt.Fprintln(c.stdout, "Connection successful!")
			if err := c.printJSON(resp.Body); err != nil {
				return err
			}

			if !overview {
				return nil
			}

			ov, err := client.Overview(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching overview: %w", err)
			}

			fmt.Fprintf(c.stdout, "\nLMS overview:\n")
			fmt.Fprintf(c.stdout, "- Courses: %d\n", ov.Courses)
			fmt.Fprintf(c.stdout, "- Locations: %d\n", ov.Locations)

			return nil
		},
	}

	cmd.Flags().BoolVar(&overview, "overview", false, "also print course and location counts")

	return cmd
}

func (c *cli) connectionFailed(err error) error {
	fmt.Fprintf(c.stdout, "Connection failed: %v\n", err)
	return errReported
}
