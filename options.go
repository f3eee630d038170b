package multipart

import "go.uber.org/zap"

// Constants related to Option defaults (spec §6).
const (
	// DefaultHeaderLimit is the default maximum number of bytes scanned
	// while searching for a part's header/body split before giving up
	// with HeaderTooLarge.
	DefaultHeaderLimit = 1024

	// DefaultMaxBeforeWrite is the default per-part in-memory byte
	// threshold the spill driver accumulates before redirecting the rest
	// of that part's body to a temporary file.
	DefaultMaxBeforeWrite = 52_428_800

	// DefaultMaxParts is the default part-count ceiling enforced by the
	// spill driver.
	DefaultMaxParts = 20
)

type config struct {
	headerLimit    int
	maxBeforeWrite int64
	maxParts       int
	failOnLimit    bool
	logger         *zap.Logger
	metrics        *Metrics
}

func defaultConfig() *config {
	return &config{
		headerLimit:    DefaultHeaderLimit,
		maxBeforeWrite: DefaultMaxBeforeWrite,
		maxParts:       DefaultMaxParts,
		failOnLimit:    false,
		logger:         zap.NewNop(),
		metrics:        nil,
	}
}

// Option configures a Reader or SpillReader.
type Option func(*config)

// WithHeaderLimit sets the maximum number of bytes scanned per part while
// searching for the header/body split. The default is DefaultHeaderLimit.
func WithHeaderLimit(n int) Option {
	return func(c *config) { c.headerLimit = n }
}

// WithMaxBeforeWrite sets the spill driver's per-part in-memory threshold.
// Only meaningful for NewSpillReader. The default is DefaultMaxBeforeWrite.
func WithMaxBeforeWrite(n int64) Option {
	return func(c *config) { c.maxBeforeWrite = n }
}

// WithMaxParts sets the spill driver's part-count ceiling. Only meaningful
// for NewSpillReader. The default is DefaultMaxParts.
func WithMaxParts(n int) Option {
	return func(c *config) { c.maxParts = n }
}

// FailOnPartsLimit makes the spill driver return PartsLimitExceeded when
// the part-count ceiling is reached, instead of the default behavior of
// stopping emission gracefully (without draining the remainder of the
// input).
func FailOnPartsLimit() Option {
	return func(c *config) { c.failOnLimit = true }
}

// WithLogger attaches a zap logger. The spill driver uses it to log spill
// file lifecycle events and to log (rather than propagate) a failed spill
// file deletion when a body is read to EOF or a spill is abandoned after an
// error. SpillReader.Close does not log its deletion failures; it returns
// them. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a Metrics collector. The default is nil, in which
// case no metrics are recorded.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}
