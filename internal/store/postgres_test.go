package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralode/facility-cli/internal/model"
)

func testPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewPostgresFromPool(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS facilities").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresCreateFacility(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	f := seedFacility("fac-pg")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO facilities")).
		WithArgs("fac-pg", "Escondida", "CHL", -24.27, -69.07,
			[]string{"Minera Escondida"}, []string{"copper", "gold"},
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.CreateFacility(context.Background(), f))
}

func TestPostgresCreateFacilityNilLists(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	f := &model.FacilityRecord{ID: "fac-min", Name: "Boddington", CountryCode: "AUS"}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO facilities")).
		WithArgs("fac-min", "Boddington", "AUS", nil, nil,
			[]string{}, []string{}, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.CreateFacility(context.Background(), f))
}

func TestPostgresUpdateFacilityNotFound(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE facilities SET")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateFacility(context.Background(), seedFacility("ghost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostgresUpdateCoordinate(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE facilities SET lat = $1, lon = $2")).
		WithArgs(-24.3, -69.1, pgxmock.AnyArg(), "fac-pg").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateCoordinate(context.Background(), "fac-pg", &model.Coordinate{Lat: -24.3, Lon: -69.1})
	require.NoError(t, err)
}

func TestPostgresGetFacility(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	lat, lon := -24.27, -69.07
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE id = $1")).
		WithArgs("fac-pg").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country_code", "lat", "lon", "aliases", "commodities"}).
			AddRow("fac-pg", "Escondida", "CHL", &lat, &lon, []string{"Minera Escondida"}, []string{"copper"}))

	got, err := s.GetFacility(context.Background(), "fac-pg")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Escondida", got.Name)
	require.NotNil(t, got.Coordinate)
	assert.Equal(t, -24.27, got.Coordinate.Lat)
}

func TestPostgresGetFacilityMissing(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetFacility(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgresGetFacilityPartialPair(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	lat := -24.27
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_code, lat, lon, aliases, commodities FROM facilities WHERE id = $1")).
		WithArgs("fac-bad").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country_code", "lat", "lon", "aliases", "commodities"}).
			AddRow("fac-bad", "Broken", "CHL", &lat, (*float64)(nil), []string{}, []string{}))

	_, err := s.GetFacility(context.Background(), "fac-bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partial coordinate pair")
}

func TestPostgresListFacilitiesFiltered(t *testing.T) {
	t.Parallel()
	s, mock := testPostgres(t)

	lat, lon := -30.44, 136.89
	mock.ExpectQuery(regexp.QuoteMeta(`AND country_code = $1 AND $2 = ANY(commodities)`)).
		WithArgs("AUS", "copper").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "country_code", "lat", "lon", "aliases", "commodities"}).
			AddRow("fac-od", "Olympic Dam", "AUS", &lat, &lon, []string{}, []string{"copper", "uranium"}))

	got, err := s.ListFacilities(context.Background(), FacilityFilter{CountryCode: "AUS", Commodity: "copper"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fac-od", got[0].ID)
}
