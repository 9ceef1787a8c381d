package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"disabled", ErrDisabled, KindDisabled},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, KindTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "feed.invalid"}, KindDNS},
		{"status", &StatusError{Code: 503}, KindStatus},
		{"malformed", &MalformedError{Reason: "not json", Err: errors.New("EOF")}, KindMalformed},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), KindNetwork},
		{"other", errors.New("boom"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := Classify(tt.err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestMalformedErrorUnwrap(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := &MalformedError{Reason: "decode body", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "decode body")
}
