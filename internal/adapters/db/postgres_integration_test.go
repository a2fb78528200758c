//go:build integration
// +build integration

package db_test

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
)

// AcquireTimeout bounds only how long Transaction waits to begin; a body
// that runs past it must still commit on the caller's context.
func (s *OrderRepositorySuite) TestTransaction_BodyMayOutliveAcquireTimeout() {
	cfg := *s.testDB.Config
	cfg.AcquireTimeout = 200 * time.Millisecond

	database, err := db.NewDatabase(s.ctx, &cfg, helpers.TestLogger())
	s.Require().NoError(err)
	defer database.Close()

	err = database.Transaction(s.ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(s.ctx,
			`INSERT INTO suppliers (name) VALUES ('Slow Freight Inc')`); err != nil {
			return err
		}
		time.Sleep(600 * time.Millisecond)
		return nil
	})
	s.NoError(err, "commit must not be bounded by the acquire timeout")

	var count int
	s.Require().NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM suppliers WHERE name = 'Slow Freight Inc'`).Scan(&count))
	s.Equal(1, count, "the slow transaction must have committed")
}
