package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/sqsnav/internal/app"
	"github.com/five82/sqsnav/internal/store"
	"github.com/five82/sqsnav/internal/tree"
)

// listConcurrency caps parallel ListQueues calls across regions.
const listConcurrency = 4

func addQueues(topLevel *cobra.Command, o *rootOptions) {
	var (
		regions []string
		filter  string
	)

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "List queues in one or more regions",
		Example: `
sqsnav queues
sqsnav queues --region us-east-1 --region eu-west-1 --filter orders
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				if len(regions) == 0 {
					regions = env.Config.Regions
				}
				gw := gatewayFor(env)

				results := make([][]string, len(regions))
				g, ctx := errgroup.WithContext(cmd.Context())
				g.SetLimit(listConcurrency)
				for i, region := range regions {
					g.Go(func() error {
						urls, err := gw.ListQueues(ctx, region, filter)
						if err != nil {
							return err
						}
						results[i] = urls
						return nil
					})
				}
				if err := g.Wait(); err != nil {
					return err
				}

				bookmarked := env.Store.Queues()
				tbl := newTable()
				tbl.AddRow("", faint("REGION"), faint("NAME"), faint("URL"))
				total := 0
				for i, region := range regions {
					for _, url := range results[i] {
						saved := slices.Contains(bookmarked, store.QueueBookmark{Region: region, QueueID: url})
						tbl.AddRow(mark(saved, "●"), region, accent(tree.QueueLabel(url)), url)
						total++
					}
				}
				out := cmd.OutOrStdout()
				if total == 0 {
					_, _ = fmt.Fprintln(out, "No queues found.")
					return nil
				}
				printTable(out, fmt.Sprintf("Queues (%d)", total), tbl)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&regions, "region", nil, "region to list (repeatable, default all configured regions)")
	cmd.Flags().StringVar(&filter, "filter", "", "only show queue URLs containing this text")

	topLevel.AddCommand(cmd)
}
