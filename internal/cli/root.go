package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/sqsnav/internal/app"
	"github.com/five82/sqsnav/internal/sqs"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	PrefsPath  string
	Profile    string
	Endpoint   string
	Poll       int
	Debug      bool
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.ConfigPath,
		PrefsPath:  o.PrefsPath,
		Profile:    o.Profile,
		Endpoint:   o.Endpoint,
		PollEvery:  o.Poll,
		Debug:      o.Debug,
	}
}

// gatewayFor returns the gateway commands talk to. Tests replace it.
var gatewayFor = func(env *app.Env) sqs.Gateway {
	return env.Gateway
}

// New builds the sqsnav command tree. Without a subcommand it launches the TUI.
func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sqsnav",
		Short: "Browse, bookmark and send to SQS queues from the terminal",
		Example: `
sqsnav
sqsnav --profile dev --endpoint http://localhost:4566
sqsnav queues --region eu-west-1 --filter orders
`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), o.appOptions())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.ConfigPath, "config", "", "config file (default ~/.config/sqsnav/config.toml)")
	flags.StringVar(&o.PrefsPath, "prefs", "", "preferences file (default ~/.config/sqsnav/prefs.toml)")
	flags.StringVar(&o.Profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&o.Endpoint, "endpoint", "", "custom SQS endpoint, e.g. LocalStack")
	flags.BoolVar(&o.Debug, "debug", false, "log at debug level")
	cmd.Flags().IntVar(&o.Poll, "poll", 0, "attribute poll interval in seconds (0 uses config)")

	addQueues(cmd, o)
	addSend(cmd, o)
	addAttrs(cmd, o)
	addBookmarks(cmd, o)
	addFiles(cmd, o)
	addWhoAmI(cmd, o)

	return cmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}

// withEnv opens the environment for the duration of fn.
func withEnv(o *rootOptions, fn func(env *app.Env) error) error {
	env, err := app.Open(o.appOptions())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

// regionFor picks the explicit region, then the one in the queue URL, then
// the configured default.
func regionFor(flag, queueURL string, env *app.Env) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if r := sqs.RegionFromURL(queueURL); r != "" {
		return r, nil
	}
	if env.Config.DefaultRegion != "" {
		return env.Config.DefaultRegion, nil
	}
	return "", fmt.Errorf("%w: pass --region", sqs.ErrNoRegion)
}
