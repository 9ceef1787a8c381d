package checker

import (
	"time"

	"github.com/olegrjumin/linkrisk/internal/threatintel"
	"github.com/olegrjumin/linkrisk/internal/whoisapi"
)

// Status is the outcome of a single check
type Status string

// Check status constants
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn" // could not evaluate, neutral in scoring
)

// Result holds the outcome of one check. Values are not modified after creation.
type Result struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Description string `json:"description"`
	Weight      int    `json:"-"`
}

// Evidence carries the remote lookup results a check may consume.
// A nil field means the lookup was not performed.
type Evidence struct {
	Threat       *threatintel.Result
	Registration *whoisapi.Result
	Now          time.Time
}

func (e Evidence) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}
