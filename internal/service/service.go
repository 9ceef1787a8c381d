package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/logging"
	"github.com/olegrjumin/linkrisk/internal/threatintel"
	"github.com/olegrjumin/linkrisk/internal/whoisapi"
)

// Analysis status constants
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultTimeout bounds a whole analysis, lookups included
const DefaultTimeout = 10 * time.Second

// ThreatLookup queries a threat-intelligence feed. Failures are reported in the result.
type ThreatLookup interface {
	Lookup(ctx context.Context, targetURL string) threatintel.Result
}

// RegistrationLookup queries domain registration data. Failures are reported in the result.
type RegistrationLookup interface {
	Lookup(ctx context.Context, domain string) whoisapi.Result
}

// AnalysisResult is the outcome of one analysis
type AnalysisResult struct {
	Status      string           `json:"status"`
	Verdict     Verdict          `json:"verdict,omitempty"`
	SafetyScore int              `json:"safety_score"`
	RiskScore   int              `json:"risk_score"`
	Checks      []checker.Result `json:"checks"`
	URL         string           `json:"url,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Options configures a Service
type Options struct {
	Thresholds Thresholds
	Timeout    time.Duration
}

// Service provides the business logic layer for URL analysis.
// It sits between the HTTP transport layer and the checker layer.
type Service struct {
	battery      *checker.Battery
	threat       ThreatLookup
	registration RegistrationLookup
	logger       *logging.Logger
	thresholds   Thresholds
	timeout      time.Duration
}

// New creates a new Service instance. threat and registration may be nil, in
// which case the checks depending on them resolve to warn.
func New(battery *checker.Battery, threat ThreatLookup, registration RegistrationLookup, logger *logging.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	return &Service{
		battery:      battery,
		threat:       threat,
		registration: registration,
		logger:       logger,
		thresholds:   opts.Thresholds,
		timeout:      opts.Timeout,
	}
}

// Thresholds returns the verdict bands in use
func (s *Service) Thresholds() Thresholds {
	return s.thresholds
}

// CheckNames returns the names of the registered checks in evaluation order
func (s *Service) CheckNames() []string {
	checks := s.battery.Checks()
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name())
	}
	return names
}

// Analyze normalizes raw, runs the check battery and scores the outcome.
// The only error returned is *checker.InvalidURLError; the result then has
// status "error" and no checks.
func (s *Service) Analyze(ctx context.Context, raw string) (*AnalysisResult, error) {
	return s.analyze(ctx, raw, nil)
}

func (s *Service) analyze(ctx context.Context, raw string, progress func(StreamEvent)) (*AnalysisResult, error) {
	emit := func(evt StreamEvent) {
		if progress != nil {
			progress(evt)
		}
	}

	u, err := checker.Normalize(raw)
	if err != nil {
		var invalid *checker.InvalidURLError
		msg := "invalid URL"
		if errors.As(err, &invalid) {
			msg = invalid.Error()
		}
		s.logger.Info("Rejected URL", "input", raw, "error", msg)
		return &AnalysisResult{Status: StatusError, Error: msg, Checks: []checker.Result{}}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("Analyzing URL", "url", u.String())
	emit(StreamEvent{Stage: StageStart, Message: "Starting analysis...", Data: map[string]string{"url": u.String()}})

	var ev checker.Evidence
	g, gctx := errgroup.WithContext(ctx)

	if s.battery.Requires(checker.LookupThreatFeed) && s.threat != nil {
		g.Go(func() error {
			res := s.threat.Lookup(gctx, u.String())
			if !res.Available() {
				s.logger.Warn("Threat lookup unavailable",
					"url", u.String(),
					"kind", string(res.Err),
					"message", res.Message,
					"elapsed_ms", res.Elapsed.Milliseconds(),
					"ttfb_ms", res.TTFB.Milliseconds(),
				)
			}
			ev.Threat = &res
			return nil
		})
	}

	if s.battery.Requires(checker.LookupRegistration) && s.registration != nil && !u.IsIP() {
		g.Go(func() error {
			res := s.registration.Lookup(gctx, u.RegistrableDomain())
			if !res.Available() {
				s.logger.Warn("Registration lookup unavailable",
					"domain", res.Domain,
					"kind", string(res.Err),
					"message", res.Message,
				)
			}
			ev.Registration = &res
			return nil
		})
	}

	// local checks run while lookups are in flight
	pending := s.battery.Start(u)
	for _, r := range pending.Local() {
		emit(StreamEvent{Stage: StageCheck, Message: r.Name, Data: r})
	}

	_ = g.Wait()
	ev.Now = time.Now()
	if ev.Threat != nil {
		emit(StreamEvent{Stage: StageLookup, Message: "Threat lookup completed", Data: ev.Threat})
	}

	results := pending.Finish(ev)
	safety, risk := Aggregate(results)
	result := &AnalysisResult{
		Status:      StatusOK,
		Verdict:     s.thresholds.Classify(safety),
		SafetyScore: safety,
		RiskScore:   risk,
		Checks:      results,
		URL:         u.String(),
	}

	s.logger.Info("Analysis completed",
		"url", result.URL,
		"verdict", string(result.Verdict),
		"safety_score", result.SafetyScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	emit(StreamEvent{Stage: StageComplete, Message: "Analysis completed", Data: result})

	return result, nil
}
