package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// StatusPolicy selects how booking status changes are checked.
type StatusPolicy string

const (
	// StatusPolicyPermissive lets the listing's sitter set any status from any
	// status, including the current one.
	StatusPolicyPermissive StatusPolicy = "permissive"
	// StatusPolicyStrict only allows pending -> approved|rejected. Re-setting
	// the current status is accepted as a no-op.
	StatusPolicyStrict StatusPolicy = "strict"
)

// ParseStatusPolicy maps a config value to a StatusPolicy. Empty means
// permissive.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch StatusPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusPolicyPermissive:
		return StatusPolicyPermissive, nil
	case StatusPolicyStrict:
		return StatusPolicyStrict, nil
	}
	return "", fmt.Errorf("unknown booking status policy %q", s)
}

type options struct {
	newID         func() string
	now           func() time.Time
	statusPolicy  StatusPolicy
	rejectOverlap bool
	passwordCost  int
}

// Option configures the services in this package.
type Option func(*options)

func defaultOptions() options {
	return options{
		newID:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
		statusPolicy: StatusPolicyPermissive,
		passwordCost: bcrypt.DefaultCost,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

func WithStatusPolicy(p StatusPolicy) Option {
	return func(o *options) { o.statusPolicy = p }
}

// WithOverlapRejection makes BookingService refuse a booking whose dates
// overlap a pending or approved booking on the same listing.
func WithOverlapRejection(enabled bool) Option {
	return func(o *options) { o.rejectOverlap = enabled }
}

// WithPasswordCost sets the bcrypt cost for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			o.passwordCost = cost
		}
	}
}
