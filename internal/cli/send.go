package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/sqsnav/internal/app"
	"github.com/five82/sqsnav/internal/msgfile"
	"github.com/five82/sqsnav/internal/sqs"
)

func addSend(topLevel *cobra.Command, o *rootOptions) {
	var region, body, file string

	cmd := &cobra.Command{
		Use:   "send QUEUE_URL",
		Short: "Send a message body to a queue",
		Example: `
sqsnav send https://sqs.us-east-1.amazonaws.com/123/orders --body '{"id": 1}'
sqsnav send https://sqs.us-east-1.amazonaws.com/123/orders --file ~/messages/order.jsonc
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if (body == "") == (file == "") {
				return errors.New("exactly one of --body or --file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			queueURL := args[0]
			return withEnv(o, func(env *app.Env) error {
				r, err := regionFor(region, queueURL, env)
				if err != nil {
					return err
				}
				text := body
				if file != "" {
					b, err := msgfile.Load(file)
					if err != nil {
						return err
					}
					text = b.Text
				}

				res, err := gatewayFor(env).Send(cmd.Context(), r, queueURL, text)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				tbl := newTable()
				tbl.AddRow(faint("MessageId"), success(res.MessageID))
				tbl.AddRow(faint("MD5OfBody"), res.MD5OfBody)
				if res.SequenceNumber != "" {
					tbl.AddRow(faint("SequenceNumber"), res.SequenceNumber)
				}
				printTable(out, "", tbl)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "queue region (default from the URL, then config)")
	cmd.Flags().StringVar(&body, "body", "", "message body")
	cmd.Flags().StringVar(&file, "file", "", "read the message body from a file (JSON with comments is compacted)")

	topLevel.AddCommand(cmd)
}

func addAttrs(topLevel *cobra.Command, o *rootOptions) {
	var region string

	cmd := &cobra.Command{
		Use:   "attrs QUEUE_URL",
		Short: "Show all attributes of a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queueURL := args[0]
			return withEnv(o, func(env *app.Env) error {
				r, err := regionFor(region, queueURL, env)
				if err != nil {
					return err
				}
				attrs, err := gatewayFor(env).Attributes(cmd.Context(), r, queueURL)
				if err != nil {
					return err
				}
				tbl := newTable()
				for _, k := range sqs.SortedKeys(attrs) {
					tbl.AddRow(faint(k), attrs[k])
				}
				printTable(cmd.OutOrStdout(), fmt.Sprintf("%s (%s)", queueURL, r), tbl)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "queue region (default from the URL, then config)")
	topLevel.AddCommand(cmd)
}

func addWhoAmI(topLevel *cobra.Command, o *rootOptions) {
	var region string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Check credentials by calling STS GetCallerIdentity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(env *app.Env) error {
				r, err := regionFor(region, "", env)
				if err != nil {
					return err
				}
				id, err := gatewayFor(env).WhoAmI(cmd.Context(), r)
				if err != nil {
					return err
				}
				tbl := newTable()
				tbl.AddRow(faint("Profile"), env.Prefs.AWSProfile)
				tbl.AddRow(faint("Account"), success(id.Account))
				tbl.AddRow(faint("ARN"), id.ARN)
				tbl.AddRow(faint("UserId"), id.UserID)
				printTable(cmd.OutOrStdout(), "", tbl)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region for the STS call (default from config)")
	topLevel.AddCommand(cmd)
}
