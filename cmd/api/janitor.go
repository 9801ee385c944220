package main

import (
	"context"
	"time"

	domainRepo "github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const purgeInterval = time.Hour

// purgeIdempotencyKeys drops expired keys until ctx is cancelled.
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *logrus.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("Failed to purge idempotency keys")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("Purged expired idempotency keys")
			}
		}
	}
}
