package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/terralode/facility-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS facilities (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	country_code TEXT NOT NULL,
	lat          REAL,
	lon          REAL,
	aliases      TEXT NOT NULL DEFAULT '[]',
	commodities  TEXT NOT NULL DEFAULT '[]',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_facilities_country ON facilities(country_code);
CREATE INDEX IF NOT EXISTS idx_facilities_name ON facilities(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateFacility(ctx context.Context, f *model.FacilityRecord) error {
	aliases, commodities, err := marshalLists(f)
	if err != nil {
		return err
	}

	var lat, lon any
	if f.Coordinate != nil {
		lat, lon = f.Coordinate.Lat, f.Coordinate.Lon
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO facilities (id, name, country_code, lat, lon, aliases, commodities, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.CountryCode, lat, lon, aliases, commodities, now, now,
	)
	return eris.Wrap(err, "sqlite: insert facility")
}

func (s *SQLiteStore) UpdateFacility(ctx context.Context, f *model.FacilityRecord) error {
	aliases, commodities, err := marshalLists(f)
	if err != nil {
		return err
	}

	var lat, lon any
	if f.Coordinate != nil {
		lat, lon = f.Coordinate.Lat, f.Coordinate.Lon
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities SET name = ?, country_code = ?, lat = ?, lon = ?, aliases = ?, commodities = ?, updated_at = ?
		 WHERE id = ?`,
		f.Name, f.CountryCode, lat, lon, aliases, commodities, time.Now().UTC(), f.ID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update facility")
	}
	return requireRow(res, f.ID)
}

func (s *SQLiteStore) UpdateCoordinate(ctx context.Context, id string, coord *model.Coordinate) error {
	var lat, lon any
	if coord != nil {
		lat, lon = coord.Lat, coord.Lon
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities SET lat = ?, lon = ?, updated_at = ? WHERE id = ?`,
		lat, lon, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update coordinate")
	}
	return requireRow(res, id)
}

func (s *SQLiteStore) GetFacility(ctx context.Context, id string) (*model.FacilityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE id = ?`, id)

	f, err := scanFacility(row.Scan)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get facility")
	}
	return f, nil
}

func (s *SQLiteStore) ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.FacilityRecord, error) {
	query := `SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE 1=1`
	var args []any

	if filter.CountryCode != "" {
		query += " AND country_code = ?"
		args = append(args, filter.CountryCode)
	}
	if filter.Commodity != "" {
		// Commodities are stored as a JSON array of strings.
		query += ` AND EXISTS (SELECT 1 FROM json_each(facilities.commodities) WHERE json_each.value = ?)`
		args = append(args, filter.Commodity)
	}

	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list facilities")
	}
	defer rows.Close()

	var facilities []model.FacilityRecord
	for rows.Next() {
		f, err := scanFacility(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan facility")
		}
		facilities = append(facilities, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate facilities")
	}
	return facilities, nil
}

// scanFacility scans one facility row, reassembling the coordinate pair and
// JSON-encoded lists.
func scanFacility(scan func(dest ...any) error) (*model.FacilityRecord, error) {
	var f model.FacilityRecord
	var lat, lon sql.NullFloat64
	var aliases, commodities string

	if err := scan(&f.ID, &f.Name, &f.CountryCode, &lat, &lon, &aliases, &commodities); err != nil {
		return nil, err
	}

	// Both present or both absent; anything else is corrupt data.
	if lat.Valid != lon.Valid {
		return nil, eris.Errorf("store: facility %s has a partial coordinate pair", f.ID)
	}
	if lat.Valid {
		f.Coordinate = &model.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
	}

	if err := json.Unmarshal([]byte(aliases), &f.Aliases); err != nil {
		return nil, eris.Wrap(err, "store: decode aliases")
	}
	if err := json.Unmarshal([]byte(commodities), &f.Commodities); err != nil {
		return nil, eris.Wrap(err, "store: decode commodities")
	}
	return &f, nil
}

func marshalLists(f *model.FacilityRecord) (aliases, commodities string, err error) {
	a, err := json.Marshal(emptyIfNil(f.Aliases))
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal aliases")
	}
	c, err := json.Marshal(emptyIfNil(f.Commodities))
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal commodities")
	}
	return string(a), string(c), nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("store: facility %s not found", id)
	}
	return nil
}
