package mti

import "log/slog"

// Option configures an EncodeTile/DecodeTile/InspectTile call. Mirrors the
// teacher's WriterOption pattern (mb/writer.go), scaled down to a single
// knob so far: an injectable logger.
type Option func(*pipelineConfig)

type pipelineConfig struct {
	logger *slog.Logger
}

// WithLogger routes pipeline stage-transition Debug logs to logger instead
// of discarding them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *pipelineConfig) { c.logger = logger }
}

func newPipelineConfig(opts []Option) *pipelineConfig {
	config := &pipelineConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(config)
	}
	return config
}
