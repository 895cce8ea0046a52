package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/terralode/facility-cli/internal/model"
)

// Pool is the pgx pool subset the store uses; pgxmock satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a new connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (used by tests).
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS facilities (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	country_code TEXT NOT NULL,
	lat          DOUBLE PRECISION,
	lon          DOUBLE PRECISION,
	aliases      TEXT[] NOT NULL DEFAULT '{}',
	commodities  TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT coordinate_pair CHECK ((lat IS NULL) = (lon IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_facilities_country ON facilities(country_code);
CREATE INDEX IF NOT EXISTS idx_facilities_name ON facilities(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateFacility(ctx context.Context, f *model.FacilityRecord) error {
	var lat, lon any
	if f.Coordinate != nil {
		lat, lon = f.Coordinate.Lat, f.Coordinate.Lon
	}

	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO facilities (id, name, country_code, lat, lon, aliases, commodities, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.Name, f.CountryCode, lat, lon, emptyIfNil(f.Aliases), emptyIfNil(f.Commodities), now, now,
	)
	return eris.Wrap(err, "postgres: insert facility")
}

func (s *PostgresStore) UpdateFacility(ctx context.Context, f *model.FacilityRecord) error {
	var lat, lon any
	if f.Coordinate != nil {
		lat, lon = f.Coordinate.Lat, f.Coordinate.Lon
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE facilities SET name = $1, country_code = $2, lat = $3, lon = $4, aliases = $5, commodities = $6, updated_at = $7
		 WHERE id = $8`,
		f.Name, f.CountryCode, lat, lon, emptyIfNil(f.Aliases), emptyIfNil(f.Commodities), time.Now().UTC(), f.ID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update facility")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("store: facility %s not found", f.ID)
	}
	return nil
}

func (s *PostgresStore) UpdateCoordinate(ctx context.Context, id string, coord *model.Coordinate) error {
	var lat, lon any
	if coord != nil {
		lat, lon = coord.Lat, coord.Lon
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE facilities SET lat = $1, lon = $2, updated_at = $3 WHERE id = $4`,
		lat, lon, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update coordinate")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("store: facility %s not found", id)
	}
	return nil
}

func (s *PostgresStore) GetFacility(ctx context.Context, id string) (*model.FacilityRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE id = $1`, id)

	f, err := scanPgFacility(row.Scan)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get facility")
	}
	return f, nil
}

func (s *PostgresStore) ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.FacilityRecord, error) {
	query := `SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE 1=1`
	var args []any

	if filter.CountryCode != "" {
		args = append(args, filter.CountryCode)
		query += ` AND country_code = $1`
	}
	if filter.Commodity != "" {
		args = append(args, filter.Commodity)
		query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(commodities)`
	}

	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += " OFFSET $" + strconv.Itoa(len(args))
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list facilities")
	}
	defer rows.Close()

	var facilities []model.FacilityRecord
	for rows.Next() {
		f, err := scanPgFacility(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan facility")
		}
		facilities = append(facilities, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate facilities")
	}
	return facilities, nil
}

func scanPgFacility(scan func(dest ...any) error) (*model.FacilityRecord, error) {
	var f model.FacilityRecord
	var lat, lon *float64

	if err := scan(&f.ID, &f.Name, &f.CountryCode, &lat, &lon, &f.Aliases, &f.Commodities); err != nil {
		return nil, err
	}

	if (lat == nil) != (lon == nil) {
		return nil, eris.Errorf("store: facility %s has a partial coordinate pair", f.ID)
	}
	if lat != nil {
		f.Coordinate = &model.Coordinate{Lat: *lat, Lon: *lon}
	}
	return &f, nil
}

