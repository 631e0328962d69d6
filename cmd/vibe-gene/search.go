package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-gene/internal/client"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search <genome> <query>",
		Short:   "Search gene symbols and names on a running server",
		Example: `  vibe-gene search hg38 kras`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				"client.base_url": "server",
				"client.timeout":  "timeout",
			}); err != nil {
				return err
			}
			c := client.New(viper.GetString("client.base_url"),
				client.WithTimeout(viper.GetDuration("client.timeout")),
				client.WithLogger(logger))

			results, err := c.DynamicSearch(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No genes found")
				return nil
			}

			symbols := make([]string, 0, len(results))
			for s := range results {
				symbols = append(symbols, s)
			}
			sort.Strings(symbols)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range symbols {
				fmt.Fprintf(tw, "%s\t%s\n", s, results[s])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("server", "http://localhost:8080", "gene browser base URL")
	cmd.Flags().Duration("timeout", client.DefaultTimeout, "request timeout")
	return cmd
}
