// Package telemetry persists sampled thermal readings to sqlite so thermal
// behavior over time can be inspected offline. Recording is opt-in; when
// disabled the collector is a no-op.
package telemetry

import (
	"context"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/logger"
)

type service struct {
	repo Repository
}

type noopCollector struct{}

func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Telemetry recording disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, reading *Reading) error {
	errFactory := errors.New()

	if reading == nil {
		return errFactory.New(ErrInvalidReading)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(reading); err != nil {
			return errFactory.Wrap(ErrRecordingFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	return s.repo.Close()
}

func (*noopCollector) Record(_ context.Context, _ *Reading) error {
	return nil
}

func (*noopCollector) Close() error {
	return nil
}
