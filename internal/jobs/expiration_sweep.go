package jobs

import (
	"context"

	"go.uber.org/zap"
)

type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// ExpirationSweep moves every overdue ACTIVE plan to INACTIVE. It complements
// the per-request check, which only sees users that make requests.
type ExpirationSweep struct {
	expirer Expirer
	log     *zap.Logger
}

func NewExpirationSweep(expirer Expirer, log *zap.Logger) *ExpirationSweep {
	return &ExpirationSweep{expirer: expirer, log: log}
}

func (s *ExpirationSweep) Run(ctx context.Context) error {
	n, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("expiration sweep failed", zap.Int("expired", n), zap.Error(err))
		return err
	}
	if n > 0 {
		s.log.Info("expiration sweep completed", zap.Int("expired", n))
	}
	return nil
}
