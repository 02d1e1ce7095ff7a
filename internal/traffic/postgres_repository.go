package traffic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripforge/tripforge/internal/geo"
)

// observationSearchRadiusDeg bounds the box around a location when loading
// history (~2.5km in latitude).
const observationSearchRadiusDeg = 0.025

// PostgresHistoryRepository is a PostgreSQL implementation of HistoryRepository.
type PostgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryRepository creates a PostgreSQL traffic history repository.
func NewPostgresHistoryRepository(pool *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{pool: pool}
}

// ListObservations returns observations near the location recorded at or after
// since, ordered oldest first.
func (r *PostgresHistoryRepository) ListObservations(ctx context.Context, location geo.Point, since time.Time) ([]Observation, error) {
	query := `
		SELECT lat, lng, observed_at, speed_kmh, congestion
		FROM traffic_observations
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
		  AND observed_at >= $5
		ORDER BY observed_at ASC
	`

	rows, err := r.pool.Query(ctx, query,
		location.Lat-observationSearchRadiusDeg,
		location.Lat+observationSearchRadiusDeg,
		location.Lng-observationSearchRadiusDeg,
		location.Lng+observationSearchRadiusDeg,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		var congestion string
		if err := rows.Scan(&o.Location.Lat, &o.Location.Lng, &o.Timestamp, &o.SpeedKmh, &congestion); err != nil {
			return nil, err
		}
		o.Congestion = CongestionLevel(congestion)
		observations = append(observations, o)
	}

	return observations, rows.Err()
}

// RecordObservation stores a raw traffic measurement.
func (r *PostgresHistoryRepository) RecordObservation(ctx context.Context, o Observation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO traffic_observations (lat, lng, observed_at, speed_kmh, congestion)
		VALUES ($1, $2, $3, $4, $5)
	`, o.Location.Lat, o.Location.Lng, o.Timestamp, o.SpeedKmh, string(o.Congestion))
	return err
}
