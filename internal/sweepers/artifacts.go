package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/oceanstay/booking-service/internal/storage"
)

// ArtifactSweeper periodically removes expired error-row artifacts
type ArtifactSweeper struct {
	pool      *pgxpool.Pool
	store     storage.Storage
	logger    *zerolog.Logger
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
}

// NewArtifactSweeper creates a new sweeper for artifact retention
func NewArtifactSweeper(pool *pgxpool.Pool, store storage.Storage, logger *zerolog.Logger, interval, retention time.Duration) *ArtifactSweeper {
	return &ArtifactSweeper{
		pool:      pool,
		store:     store,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic retention sweep
func (s *ArtifactSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("Starting artifact sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Artifact sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Artifact sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.SweepExpiredArtifacts(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep expired artifacts")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *ArtifactSweeper) Stop() {
	close(s.stopChan)
}

// SweepExpiredArtifacts deletes error artifacts of runs that completed
// before the retention window and clears their error_log_file reference.
// The run record itself is kept.
func (s *ArtifactSweeper) SweepExpiredArtifacts(ctx context.Context) error {
	s.logger.Debug().Msg("Running artifact retention sweep")

	rows, err := s.pool.Query(ctx, `
		SELECT ingestion_id, error_log_file
		FROM import_runs
		WHERE error_log_file IS NOT NULL
		  AND completed_at IS NOT NULL
		  AND completed_at < NOW() - $1::interval
	`, fmt.Sprintf("%d seconds", int64(s.retention.Seconds())))
	if err != nil {
		return fmt.Errorf("failed to query expired artifacts: %w", err)
	}
	defer rows.Close()

	type expired struct {
		ingestionID string
		key         string
	}
	var candidates []expired
	for rows.Next() {
		var e expired
		if err := rows.Scan(&e.ingestionID, &e.key); err != nil {
			return fmt.Errorf("failed to scan expired artifact: %w", err)
		}
		candidates = append(candidates, e)
	}
	if rows.Err() != nil {
		return fmt.Errorf("failed to iterate expired artifacts: %w", rows.Err())
	}

	removed := 0
	for _, e := range candidates {
		if err := s.store.Delete(ctx, e.key); err != nil {
			s.logger.Warn().Err(err).Str("key", e.key).Msg("Failed to delete artifact")
			continue
		}
		_, err := s.pool.Exec(ctx, `
			UPDATE import_runs SET error_log_file = NULL WHERE ingestion_id = $1
		`, e.ingestionID)
		if err != nil {
			return fmt.Errorf("failed to clear artifact reference: %w", err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Swept expired artifacts")
	}
	return nil
}
