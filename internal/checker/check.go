package checker

// Check is one independent heuristic. Evaluate must not depend on other checks' results.
type Check interface {
	Name() string
	Weight() int
	Evaluate(u *NormalizedURL, ev Evidence) Result
}

// Lookup identifies an external lookup a check depends on
type Lookup int

// Lookup constants
const (
	LookupThreatFeed Lookup = iota + 1
	LookupRegistration
)

func (l Lookup) String() string {
	switch l {
	case LookupThreatFeed:
		return "threat_feed"
	case LookupRegistration:
		return "registration"
	default:
		return "unknown"
	}
}

// Remote is implemented by checks whose outcome depends on an external lookup
type Remote interface {
	Requires() Lookup
}

// base provides Name, Weight and result constructors for concrete checks
type base struct {
	name   string
	weight int
}

func (b base) Name() string { return b.name }

func (b base) Weight() int { return b.weight }

func (b base) pass(desc string) Result {
	return Result{Name: b.name, Status: StatusPass, Description: desc, Weight: b.weight}
}

func (b base) fail(desc string) Result {
	return Result{Name: b.name, Status: StatusFail, Description: desc, Weight: b.weight}
}

func (b base) warn(desc string) Result {
	return Result{Name: b.name, Status: StatusWarn, Description: desc, Weight: b.weight}
}
