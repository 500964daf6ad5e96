package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/sqsnav/internal/app"
	"github.com/five82/sqsnav/internal/config"
	"github.com/five82/sqsnav/internal/store"
	"github.com/five82/sqsnav/internal/tree"
)

func addBookmarks(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarked queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookmarked queues with their marks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				queues := env.Store.Queues()
				out := cmd.OutOrStdout()
				if len(queues) == 0 {
					_, _ = fmt.Fprintln(out, "No bookmarks.")
					return nil
				}
				tbl := newTable()
				tbl.AddRow("", "", faint("REGION"), faint("NAME"), faint("FILES"), faint("URL"))
				for _, q := range queues {
					ref := store.NodeRef{Region: q.Region, QueueID: q.QueueID}
					files := len(env.Store.MessageFilesFor(q.Region, q.QueueID))
					tbl.AddRow(
						mark(env.Store.IsFavorite(ref), "★"),
						mark(env.Store.IsHidden(ref), "◌"),
						q.Region, accent(tree.QueueLabel(q.QueueID)), files, q.QueueID)
				}
				printTable(out, fmt.Sprintf("Bookmarks (%d)", len(queues)), tbl)
				return nil
			})
		},
	})

	var addRegion string
	add := &cobra.Command{
		Use:   "add QUEUE_URL...",
		Short: "Bookmark one or more queues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				for _, url := range args {
					r, err := regionFor(addRegion, url, env)
					if err != nil {
						return err
					}
					changed, err := env.Store.AddQueue(r, url)
					if err != nil {
						return err
					}
					report(cmd, changed, "added", "already bookmarked", url)
				}
				return nil
			})
		},
	}
	add.Flags().StringVar(&addRegion, "region", "", "queue region (default from the URL, then config)")
	cmd.AddCommand(add)

	var rmRegion string
	rm := &cobra.Command{
		Use:     "rm QUEUE_URL...",
		Aliases: []string{"remove"},
		Short:   "Remove bookmarks and their marks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				for _, url := range args {
					r, err := regionFor(rmRegion, url, env)
					if err != nil {
						return err
					}
					changed, err := env.Store.RemoveQueue(r, url)
					if err != nil {
						return err
					}
					report(cmd, changed, "removed", "not bookmarked", url)
				}
				return nil
			})
		},
	}
	rm.Flags().StringVar(&rmRegion, "region", "", "queue region (default from the URL, then config)")
	cmd.AddCommand(rm)

	topLevel.AddCommand(cmd)
}

func addFiles(topLevel *cobra.Command, o *rootOptions) {
	var region string

	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage message files attached to queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&region, "region", "", "queue region (default from the URL, then config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list [QUEUE_URL]",
		Short: "List message files, optionally for one queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				files := env.Store.MessageFiles()
				if len(args) == 1 {
					r, err := regionFor(region, args[0], env)
					if err != nil {
						return err
					}
					files = env.Store.MessageFilesFor(r, args[0])
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					_, _ = fmt.Fprintln(out, "No message files.")
					return nil
				}
				tbl := newTable()
				tbl.AddRow(faint("QUEUE"), faint("FILE"), faint("PATH"))
				for _, f := range files {
					tbl.AddRow(accent(tree.QueueLabel(f.QueueID)), tree.FileLabel(f.Path), f.Path)
				}
				printTable(out, fmt.Sprintf("Message files (%d)", len(files)), tbl)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add QUEUE_URL PATH",
		Short: "Attach a message file to a queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				r, err := regionFor(region, args[0], env)
				if err != nil {
					return err
				}
				path, err := config.ExpandPath(args[1])
				if err != nil {
					return err
				}
				changed, err := env.Store.AddMessageFile(r, args[0], path)
				if err != nil {
					return err
				}
				report(cmd, changed, "attached", "already attached", path)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm QUEUE_URL PATH",
		Aliases: []string{"remove"},
		Short:   "Detach a message file from a queue",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				r, err := regionFor(region, args[0], env)
				if err != nil {
					return err
				}
				path, err := config.ExpandPath(args[1])
				if err != nil {
					return err
				}
				changed, err := env.Store.RemoveMessageFile(r, args[0], path)
				if err != nil {
					return err
				}
				report(cmd, changed, "detached", "not attached", path)
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}

func report(cmd *cobra.Command, changed bool, did, skipped, what string) {
	if changed {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", success(did), what)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", faint(skipped), what)
}
