// Package config holds the runtime build options (high-prec, row-major)
// plus the ambient knobs every subsystem needs: the explosion cap on
// combinatorial expansion, and an injected logger.
//
// The shape follows ivy's config.Config: a struct built once and threaded
// through every call, with nil-receiver-safe getters so a *Config can be
// omitted in tests without every call site needing a nil check.
package config

import (
	"go.uber.org/zap"
)

// Default values for build options and solver/evaluator limits.
const (
	DefaultPrecisionExponent = 8
	HighPrecisionExponent    = 13
	DefaultExplosionCap      = 1_000_000
	DefaultMaxRecursion      = 256
	DefaultMaxNewtonIters    = 100
)

// Config carries the build-time options and ambient resources used
// across parsing, evaluation, and solving.
type Config struct {
	highPrec     bool
	rowMajor     bool
	explosionCap int
	maxRecursion int
	maxIters     int
	logger       *zap.Logger
	debug        map[string]bool
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithHighPrec selects the high-prec build option: solver precision
// exponent 13 instead of 8, and a rounding cap two less than that.
func WithHighPrec() Option {
	return func(c *Config) { c.highPrec = true }
}

// WithRowMajor selects the row-major build option: matrix literals' outer
// sequence is rows instead of columns.
func WithRowMajor() Option {
	return func(c *Config) { c.rowMajor = true }
}

// WithExplosionCap overrides the default cap on cartesian expansion size.
func WithExplosionCap(n int) Option {
	return func(c *Config) { c.explosionCap = n }
}

// WithMaxRecursion overrides the default user-function recursion depth cap.
func WithMaxRecursion(n int) Option {
	return func(c *Config) { c.maxRecursion = n }
}

// WithLogger injects a structured logger. Library code defaults to a
// no-op logger; callers embedding this in a service supply their own
// zap.Logger instance rather than reaching for a package-level global.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// New returns a Config with its default values, as modified by opts.
func New(opts ...Option) *Config {
	c := &Config{
		explosionCap: DefaultExplosionCap,
		maxRecursion: DefaultMaxRecursion,
		maxIters:     DefaultMaxNewtonIters,
		logger:       zap.NewNop(),
		debug:        make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HighPrec reports whether the high-prec build option is set.
func (c *Config) HighPrec() bool {
	if c == nil {
		return false
	}
	return c.highPrec
}

// RowMajor reports whether the row-major build option is set.
func (c *Config) RowMajor() bool {
	if c == nil {
		return false
	}
	return c.rowMajor
}

// PrecisionExponent returns p: the solver converges when the residual's
// max norm is at most 10^-p.
func (c *Config) PrecisionExponent() int {
	if c.HighPrec() {
		return HighPrecisionExponent
	}
	return DefaultPrecisionExponent
}

// RoundDecimals returns the default display rounding, p-2.
func (c *Config) RoundDecimals() int {
	return c.PrecisionExponent() - 2
}

// ExplosionCap returns the cartesian-expansion size cap.
func (c *Config) ExplosionCap() int {
	if c == nil || c.explosionCap == 0 {
		return DefaultExplosionCap
	}
	return c.explosionCap
}

// MaxRecursion returns the user-function recursion depth cap.
func (c *Config) MaxRecursion() int {
	if c == nil || c.maxRecursion == 0 {
		return DefaultMaxRecursion
	}
	return c.maxRecursion
}

// MaxNewtonIterations returns the solver's per-seed iteration cap.
func (c *Config) MaxNewtonIterations() int {
	if c == nil || c.maxIters == 0 {
		return DefaultMaxNewtonIters
	}
	return c.maxIters
}

// Logger returns the configured logger, or a no-op logger if none was set
// (including when c is nil).
func (c *Config) Logger() *zap.Logger {
	if c == nil || c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// SetDebug toggles a named trace category (e.g. "cartesian", "solver"),
// mirroring ivy's )debug command.
func (c *Config) SetDebug(name string, on bool) {
	if c.debug == nil {
		c.debug = make(map[string]bool)
	}
	c.debug[name] = on
}

// Debug reports whether a trace category is enabled.
func (c *Config) Debug(name string) bool {
	if c == nil {
		return false
	}
	return c.debug[name]
}
