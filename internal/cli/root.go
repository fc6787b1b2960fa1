// Package cli implements the sbrowser command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/sbrowser/internal/app"
	"github.com/raysh454/sbrowser/internal/config"
	"github.com/raysh454/sbrowser/internal/urlutil"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath  string
	backend     string
	userAgent   string
	proxy       string
	headers     []string
	timeout     time.Duration
	cacheDriver string
	cacheDir    string
	logLevel    string
	logFile     string
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sbrowser",
		Short:         "sbrowser is a stateful scraping HTTP client.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	f.StringVar(&opts.backend, "backend", "", "webclient backend (nethttp, resty)")
	f.StringVarP(&opts.userAgent, "user-agent", "A", "", "user agent string or browser name (firefox, chrome, safari)")
	f.StringVar(&opts.proxy, "proxy", "", "proxy address, host:port or scheme://host:port")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, `extra "Name: Value" header, repeatable`)
	f.DurationVar(&opts.timeout, "timeout", 0, "total request timeout")
	f.StringVar(&opts.cacheDriver, "cache", "", "response cache driver (none, file, sqlite, memory)")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "directory for the file cache")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to a rotated file instead of stderr")

	root.AddCommand(
		newGetCommand(opts),
		newPostCommand(opts),
		newFormsCommand(opts),
		newSubmitCommand(opts),
		newDownloadCommand(opts),
	)
	return root
}

// Execute runs the command tree with os.Args and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath, nil)
	if err != nil {
		return nil, err
	}
	if o.backend != "" {
		cfg.Client.Backend = o.backend
	}
	if o.userAgent != "" {
		cfg.Client.UserAgent = o.userAgent
	}
	if o.proxy != "" {
		cfg.Client.Proxy = o.proxy
	}
	if len(o.headers) > 0 {
		cfg.Client.Headers = append(cfg.Client.Headers, o.headers...)
	}
	if o.timeout > 0 {
		cfg.Client.Timeout.Duration = o.timeout
	}
	if o.cacheDriver != "" {
		cfg.Cache.Driver = o.cacheDriver
	}
	if o.cacheDir != "" {
		cfg.Cache.Dir = o.cacheDir
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	return cfg, cfg.Validate()
}

func (o *options) newApp() (*app.Application, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, nil)
}

// parseParams turns "name=value" arguments into ordered Values.
func parseParams(pairs []string) (*urlutil.Values, error) {
	values := urlutil.NewValues()
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", p)
		}
		values.Set(name, value)
	}
	return values, nil
}
