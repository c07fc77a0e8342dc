package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankwiles/store-cli/internal/api"
	"github.com/frankwiles/store-cli/internal/version"
)

// options holds the resolved settings of one invocation.
type options struct {
	apiToken   string
	project    string
	apiURL     string
	dataType   string
	proxy      string
	configPath string
	timeout    time.Duration
	verbose    bool
	jsonOutput bool
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&options{})
}

// newRootCmdWith binds the command's flags to opts.
func newRootCmdWith(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store <data...>",
		Short: "Store data in the Frank Wiles API",
		Long: `Store a JSON document or a set of key=value pairs in the storage API.

A single argument that is valid JSON is sent as is. Otherwise every
argument must be a key=value pair; values that parse as JSON keep their
type, everything else is sent as a string.

Examples:
  store '{"temp": 21.5, "room": "office"}' --project home
  store temp=21.5 room=office --type reading
  STORE_API_TOKEN=... STORE_PROJECT=home store ok=true`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveOptions(cmd.Flags(), opts); err != nil {
				return err
			}
			return runStore(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate("store {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.apiToken, "api-token", "", "API token (or set "+envAPIToken+")")
	flags.StringVar(&opts.project, "project", "", "Project slug (or set "+envProject+")")
	flags.StringVar(&opts.apiURL, "api-url", api.DefaultURL, "API URL (or set "+envAPIURL+")")
	flags.StringVar(&opts.dataType, "type", "", "Data type categorization (optional)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout, 0 means none (or set "+envTimeout+")")
	flags.StringVar(&opts.proxy, "proxy", "", "HTTP(S) or SOCKS5 proxy URL (or set "+envProxy+")")
	flags.StringVar(&opts.configPath, "config", "", "Config file (or set "+envConfig+", default ~/.config/store/config.yml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output result as JSON")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the request payload without sending it")

	return cmd
}

// Execute runs the store command and exits the process.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}
