package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthChecker reports database connectivity for the health endpoint.
type HealthChecker struct {
	pool *pgxpool.Pool
}

func NewHealthChecker(pool *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

func (h *HealthChecker) Name() string {
	return "database"
}

// CheckHealth pings the database with a short deadline so a stalled
// connection pool cannot hang the health endpoint.
func (h *HealthChecker) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return h.pool.Ping(ctx)
}
