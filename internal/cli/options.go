package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/frankwiles/store-cli/internal/config"
	"github.com/frankwiles/store-cli/internal/httpclient"
)

const (
	envAPIToken = "STORE_API_TOKEN"
	envProject  = "STORE_PROJECT"
	envAPIURL   = "STORE_API_URL"
	envTimeout  = "STORE_TIMEOUT"
	envProxy    = "STORE_PROXY"
	envConfig   = "STORE_CONFIG"
)

// resolveOptions fills opts from, in order of precedence, explicit flags,
// the environment, the config file and flag defaults.
func resolveOptions(flags *pflag.FlagSet, opts *options) error {
	cfg, err := loadConfig(flags, opts.configPath)
	if err != nil {
		return err
	}

	opts.apiToken = setting(flags, "api-token", opts.apiToken, envAPIToken, cfg.APIToken)
	opts.project = setting(flags, "project", opts.project, envProject, cfg.Project)
	opts.apiURL = setting(flags, "api-url", opts.apiURL, envAPIURL, cfg.APIURL)
	opts.dataType = setting(flags, "type", opts.dataType, "", cfg.DataType)
	opts.proxy = setting(flags, "proxy", opts.proxy, envProxy, cfg.Proxy)

	if !flags.Changed("verbose") && cfg.Verbose {
		opts.verbose = true
	}

	if !flags.Changed("timeout") {
		raw := os.Getenv(envTimeout)
		source := envTimeout
		if raw == "" {
			raw, source = cfg.Timeout, "config timeout"
		}
		if raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", source, raw, err)
			}
			opts.timeout = d
		}
	}
	if opts.timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", opts.timeout)
	}

	var missing []error
	if opts.apiToken == "" {
		missing = append(missing, fmt.Errorf("required flag --api-token (or %s) not set", envAPIToken))
	}
	if opts.project == "" {
		missing = append(missing, fmt.Errorf("required flag --project (or %s) not set", envProject))
	}
	if opts.apiURL == "" {
		missing = append(missing, errors.New("--api-url must not be empty"))
	}
	return errors.Join(missing...)
}

// setting picks the value of one string option. Empty environment values
// count as unset.
func setting(flags *pflag.FlagSet, name, flagValue, env, fromFile string) string {
	if flags.Changed(name) {
		return flagValue
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if fromFile != "" {
		return fromFile
	}
	return flagValue
}

func loadConfig(flags *pflag.FlagSet, flagPath string) (*config.Config, error) {
	path := flagPath
	if !flags.Changed("config") {
		path = os.Getenv(envConfig)
	}

	if path == "" {
		cfg, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// describeProxy is the loggable form of the configured proxy.
func describeProxy(proxy string) string {
	if proxy == "" {
		return "environment"
	}
	return httpclient.MaskProxyURL(proxy)
}
