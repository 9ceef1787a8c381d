package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/config"
	"github.com/olegrjumin/linkrisk/internal/logging"
	"github.com/olegrjumin/linkrisk/internal/service"
	"github.com/olegrjumin/linkrisk/internal/threatintel"
	"github.com/olegrjumin/linkrisk/internal/whoisapi"
)

// errVerdict is returned by analyze when the verdict reaches the --fail-on level
var errVerdict = errors.New("verdict threshold reached")

func exitCode(err error) int {
	if errors.Is(err, errVerdict) {
		return 2
	}
	return 1
}

// newRootCmd creates the linkrisk command tree
func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "linkrisk",
		Short: "Analyze URLs for phishing and malware risk",
		Long: `linkrisk inspects a URL with a battery of heuristic checks and a public
threat-intelligence feed, then reports a safety score and a verdict:
safe, risky or unsafe.

Configuration is read from linkrisk.yaml (or --config), a .env file and
environment variables such as PORT, LOG_LEVEL and URLHAUS_AUTH_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	cmd.AddCommand(
		newServeCmd(load),
		newAnalyzeCmd(load),
		newVersionCmd(),
	)
	return cmd
}

// app holds the wired components built from a configuration
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	svc        *service.Service
	feedSource string
}

// newApp wires logger, check battery, lookups and service from cfg.
// Console logs go to logOut.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logOpts := cfg.LoggingOptions()
	logOpts.Output = logOut
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	battery, err := checker.DefaultBattery(cfg.CheckSettings())
	if err != nil {
		return nil, err
	}

	feed := threatintel.New(cfg.ThreatFeedOptions())

	var registration service.RegistrationLookup
	if cfg.Whois.Enabled {
		registration = whoisapi.New(true, cfg.Whois.Timeout)
	}

	svc := service.New(battery, feed, registration, logger, cfg.ServiceOptions())
	return &app{cfg: cfg, logger: logger, svc: svc, feedSource: feed.Source()}, nil
}
