package cache

import (
	"context"
	"database/sql"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestSqlite(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.OpenSqlite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(ctx, conn, DialectSqlite))
	return conn
}

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteGeocodeCache(openTestSqlite(t))

	err := c.PutMany(ctx, map[string]domain.Location{
		"1 main st": {Address: "1 Main St, Springfield, USA", Coordinates: &domain.Coordinates{Lon: -89.6, Lat: 39.8}},
		"2 elm ave": {Address: "2 Elm Ave, Springfield, USA"},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, []string{"1 main st", " 2 elm ave ", "missing", "1 main st", ""})
	require.NoError(t, err)
	require.Len(t, got, 2)

	main := got["1 main st"]
	require.Equal(t, "1 Main St, Springfield, USA", main.Address)
	require.NotNil(t, main.Coordinates)
	require.InDelta(t, -89.6, main.Coordinates.Lon, 1e-9)
	require.InDelta(t, 39.8, main.Coordinates.Lat, 1e-9)

	elm := got["2 elm ave"]
	require.Equal(t, "2 Elm Ave, Springfield, USA", elm.Address)
	require.Nil(t, elm.Coordinates)
}

func TestSqliteGeocodeCacheReplacesEntries(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteGeocodeCache(openTestSqlite(t))

	require.NoError(t, c.PutMany(ctx, map[string]domain.Location{"a": {Address: "old"}}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.Location{"a": {Address: "new"}}))

	got, err := c.GetMany(ctx, []string{"a"})
	require.NoError(t, err)
	require.Equal(t, "new", got["a"].Address)
}

func TestSqliteGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := NewSqliteGeocodeCache(openTestSqlite(t))

	err := c.PutMany(context.Background(), map[string]domain.Location{"  ": {Address: "x"}})
	require.Error(t, err)
}

func TestSqliteDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDistanceCache(openTestSqlite(t))

	err := c.PutMany(ctx, "A", map[string]ports.DistanceResult{
		"B": {DistanceMeters: 1000, DurationSeconds: 300},
		"C": {DistanceMeters: 1500.5, DurationSeconds: 450},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, "A", []string{"B", "C", "D"})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.DistanceResult{
		"B": {DistanceMeters: 1000, DurationSeconds: 300},
		"C": {DistanceMeters: 1500.5, DurationSeconds: 450},
	}, got)

	// Entries are directional.
	back, err := c.GetMany(ctx, "B", []string{"A"})
	require.NoError(t, err)
	require.Empty(t, back)
}

func TestSqliteDistanceCacheRequiresOrigin(t *testing.T) {
	c := NewSqliteDistanceCache(openTestSqlite(t))

	_, err := c.GetMany(context.Background(), "", []string{"B"})
	require.Error(t, err)

	err = c.PutMany(context.Background(), "", map[string]ports.DistanceResult{"B": {}})
	require.Error(t, err)
}

func TestNilDBIsReported(t *testing.T) {
	_, err := NewSqliteGeocodeCache(nil).GetMany(context.Background(), []string{"a"})
	require.Error(t, err)

	_, err = NewSQLDistanceCache(nil).GetMany(context.Background(), "a", []string{"b"})
	require.Error(t, err)

	require.Error(t, InitSchema(context.Background(), nil, DialectSqlite))
}

func TestInitSchemaRejectsUnknownDialect(t *testing.T) {
	conn := openTestSqlite(t)
	require.Error(t, InitSchema(context.Background(), conn, Dialect("oracle")))
}
