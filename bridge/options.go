package bridge

import (
	"github.com/zkattest/zkattest/log"
	"github.com/zkattest/zkattest/metrics"
)

type options struct {
	logger    *log.Logger
	collector *metrics.Collector
}

// Option configures a Bridge.
type Option func(*options)

// WithLogger sets the logger shared by the prover and verifier.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCollector wires a metrics collector into both operations.
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) { o.collector = c }
}
