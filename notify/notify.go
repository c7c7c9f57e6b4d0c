package notify

import (
	"go.uber.org/zap"
)

// Sink receives the outcome of report computations. Implementations must be
// safe for concurrent use
type Sink interface {
	Success(message string)
	Error(message string, err error)
}

type zapSink struct {
	logger *zap.Logger
}

// NewZapSink reports outcomes through structured logs
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger}
}

func (s *zapSink) Success(message string) {
	s.logger.Info(message)
}

func (s *zapSink) Error(message string, err error) {
	s.logger.Error(message, zap.Error(err))
}

type discardSink struct{}

func (discardSink) Success(string)      {}
func (discardSink) Error(string, error) {}

// Discard drops all notifications
var Discard Sink = discardSink{}
