package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegrjumin/linkrisk/internal/threatintel"
)

type stubCheck struct {
	base
	status Status
	calls  int
}

func (c *stubCheck) Evaluate(_ *NormalizedURL, _ Evidence) Result {
	c.calls++
	return Result{Name: c.name, Status: c.status, Weight: c.weight}
}

type stubRemote struct {
	stubCheck
	seen Evidence
}

func (c *stubRemote) Requires() Lookup { return LookupThreatFeed }

func (c *stubRemote) Evaluate(u *NormalizedURL, ev Evidence) Result {
	c.seen = ev
	return c.stubCheck.Evaluate(u, ev)
}

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestNewBattery(t *testing.T) {
	_, err := NewBattery()
	assert.ErrorIs(t, err, ErrEmptyBattery)

	_, err = NewBattery(
		&stubCheck{base: base{"a", 1}},
		&stubCheck{base: base{"a", 2}},
	)
	assert.ErrorContains(t, err, `duplicate check "a"`)

	_, err = NewBattery(&stubCheck{base: base{"a", -1}})
	assert.ErrorContains(t, err, "negative weight")
}

func TestDefaultBatteryOrder(t *testing.T) {
	b, err := DefaultBattery(DefaultSettings())
	require.NoError(t, err)

	var got []string
	for _, c := range b.Checks() {
		got = append(got, c.Name())
	}
	assert.Equal(t, []string{
		NameProtocol,
		NameIPHost,
		NameKeywords,
		NameBrand,
		NameSubdomains,
		NameTLD,
		NameDomainLength,
		NameSpecialChars,
		NameURLLength,
		NameThreatFeed,
	}, got)

	assert.True(t, b.Requires(LookupThreatFeed))
	assert.False(t, b.Requires(LookupRegistration))
}

func TestDefaultBatteryWithDomainAge(t *testing.T) {
	s := DefaultSettings()
	s.DomainAge = true

	b, err := DefaultBattery(s)
	require.NoError(t, err)

	checks := b.Checks()
	assert.Equal(t, NameDomainAge, checks[len(checks)-1].Name())
	assert.True(t, b.Requires(LookupRegistration))
}

func TestBatteryStartFinish(t *testing.T) {
	local := &stubCheck{base: base{"local", 5}, status: StatusPass}
	remote := &stubRemote{stubCheck: stubCheck{base: base{"remote", 10}, status: StatusFail}}
	last := &stubCheck{base: base{"last", 1}, status: StatusWarn}

	b, err := NewBattery(local, remote, last)
	require.NoError(t, err)

	u := mustNormalize(t, "https://example.com")
	pending := b.Start(u)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, 1, last.calls)
	assert.Equal(t, 0, remote.calls)
	assert.Equal(t, []string{"local", "last"}, names(pending.Local()))

	ev := Evidence{Threat: &threatintel.Result{Source: "feed"}}
	results := pending.Finish(ev)

	assert.Equal(t, []string{"local", "remote", "last"}, names(results))
	assert.Equal(t, 1, remote.calls)
	assert.Same(t, ev.Threat, remote.seen.Threat)
	assert.Equal(t, 1, local.calls, "local checks are not evaluated twice")
}

func TestBatteryRun(t *testing.T) {
	b, err := DefaultBattery(DefaultSettings())
	require.NoError(t, err)

	results := b.Run(mustNormalize(t, "https://google.com"), Evidence{Threat: &threatintel.Result{Source: "feed"}})
	require.Len(t, results, 10)
	for _, r := range results {
		assert.Equal(t, StatusPass, r.Status, r.Name)
		assert.NotEmpty(t, r.Description, r.Name)
	}
}

func TestBatteryChecksIsCopy(t *testing.T) {
	b, err := NewBattery(&stubCheck{base: base{"a", 1}})
	require.NoError(t, err)

	checks := b.Checks()
	checks[0] = &stubCheck{base: base{"b", 1}}
	assert.Equal(t, "a", b.Checks()[0].Name())
}
