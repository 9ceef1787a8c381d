package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/config"
	"github.com/olegrjumin/linkrisk/internal/service"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// verdictRank orders verdicts from least to most risky
var verdictRank = map[service.Verdict]int{
	service.VerdictSafe:   0,
	service.VerdictRisky:  1,
	service.VerdictUnsafe: 2,
}

func newAnalyzeCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
		failOn  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a single URL and print the verdict",
		Example: `  linkrisk analyze https://paypal-verify.com
  linkrisk analyze --json example.com
  linkrisk analyze --fail-on risky "$URL"   # exit status 2 when risky or unsafe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if failOn != "" {
				if _, ok := verdictRank[service.Verdict(failOn)]; !ok {
					return fmt.Errorf("--fail-on must be one of safe, risky, unsafe, got %q", failOn)
				}
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			if offline {
				cfg.ThreatFeed.Enabled = false
				cfg.Whois.Enabled = false
			}
			// keep stdout clean for the report
			if cfg.Log.Level == "info" || cfg.Log.Level == "debug" {
				cfg.Log.Level = "warn"
			}

			a, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.logger.Close()

			result, analyzeErr := a.svc.Analyze(cmd.Context(), args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSONReport(out, result); err != nil {
					return err
				}
			} else {
				if noColor || !isTerminal(out) {
					color.NoColor = true
				}
				writeTextReport(out, result)
			}

			if analyzeErr != nil {
				return analyzeErr
			}
			if failOn != "" && verdictRank[result.Verdict] >= verdictRank[service.Verdict(failOn)] {
				return errVerdict
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit with status 2 when the verdict is at least this level (safe, risky, unsafe)")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the threat feed and WHOIS lookups")
	return cmd
}

func writeJSONReport(w io.Writer, result *service.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeTextReport(w io.Writer, result *service.AnalysisResult) {
	if result.Status != service.StatusOK {
		fmt.Fprintf(w, "%s %s\n", red("Error:"), result.Error)
		return
	}

	fmt.Fprintf(w, "%s %s\n", bold("URL:"), result.URL)
	fmt.Fprintf(w, "%s %s (safety %d/100, risk %d/100)\n\n",
		bold("Verdict:"), colorVerdict(result.Verdict), result.SafetyScore, result.RiskScore)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range result.Checks {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", statusMark(c.Status), c.Name, c.Description)
	}
	_ = tw.Flush()
}

func colorVerdict(v service.Verdict) string {
	label := strings.ToUpper(string(v))
	switch v {
	case service.VerdictSafe:
		return green(label)
	case service.VerdictRisky:
		return yellow(label)
	default:
		return red(label)
	}
}

func statusMark(s checker.Status) string {
	switch s {
	case checker.StatusPass:
		return green("PASS")
	case checker.StatusFail:
		return red("FAIL")
	default:
		return yellow("WARN")
	}
}

// isTerminal reports whether w is a character device such as a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
