package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankwiles/store-cli/internal/api"
	"github.com/frankwiles/store-cli/internal/httpclient"
	"github.com/frankwiles/store-cli/internal/input"
)

// jsonResult is the --json form of a successful store.
type jsonResult struct {
	Success   bool   `json:"success"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id"`
	Body      any    `json:"body,omitempty"`
}

func runStore(ctx context.Context, opts *options, args []string, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose)

	data, err := input.Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse data input: %w", err)
	}

	payload := api.NewPayload(opts.project, opts.dataType, data)

	if opts.dryRun {
		output, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		fmt.Fprintln(stdout, string(output))
		return nil
	}

	hc, err := httpclient.New(httpclient.Options{
		Timeout: opts.timeout,
		Proxy:   opts.proxy,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP client: %w", err)
	}

	logger.Debug().
		Str("url", opts.apiURL).
		Str("proxy", describeProxy(opts.proxy)).
		Dur("timeout", opts.timeout).
		Msg("storing data")

	client := api.NewClient(opts.apiURL, opts.apiToken,
		api.WithHTTPClient(hc),
		api.WithLogger(logger),
	)

	result, err := client.Store(ctx, payload)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return printJSONResult(stdout, result)
	}

	fmt.Fprintf(stdout, "%s Data stored successfully\n", paint(stdout, colorGreen, "Success:"))
	if result.ShouldPrintBody() {
		fmt.Fprintln(stdout, result.Body)
	}
	return nil
}

func printJSONResult(w io.Writer, result *api.Result) error {
	out := jsonResult{
		Success:   true,
		Status:    result.StatusCode,
		RequestID: result.RequestID,
	}
	if result.ShouldPrintBody() {
		if json.Valid([]byte(result.Body)) {
			out.Body = json.RawMessage(result.Body)
		} else {
			out.Body = result.Body
		}
	}

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !colorEnabled(w),
	}).Level(level).With().Timestamp().Logger()
}
