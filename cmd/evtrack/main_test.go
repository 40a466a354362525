package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/evtrack/internal/config"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
	"github.com/verte-zerg/evtrack/internal/store"
)

type loopGateway struct {
	inserted []model.RawEvent
}

func (g *loopGateway) FetchAllEvents(context.Context) ([]model.RawEvent, error) {
	return g.inserted, nil
}

func (g *loopGateway) InsertEvent(_ context.Context, ev model.RawEvent) error {
	g.inserted = append(g.inserted, ev)
	return nil
}

func strPtr(s string) *string {
	return &s
}

func TestMergeSettingsFlagsOverrideConfig(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--db", "/tmp/flag.db"}))

	s, err := mergeSettings(root, config.FileConfig{
		Store: config.StoreConfig{
			Backend: strPtr(config.BackendSQLite),
			Path:    strPtr("/tmp/config.db"),
			Table:   strPtr("migraine"),
		},
		Dashboard: config.DashboardConfig{
			Years:       strPtr("all"),
			DefaultName: strPtr(" Migräne "),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", s.dbPath)
	assert.Equal(t, "all", s.years)
	assert.Equal(t, "migraine", s.table)
	assert.Equal(t, "Migräne", s.defaultName)
	assert.Equal(t, config.BackendSQLite, s.backend)
}

func TestMergeSettingsDefaults(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags(nil))

	s, err := mergeSettings(root, config.FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultYears, s.years)
	assert.Equal(t, store.DefaultTable, s.table)
	assert.Equal(t, model.DefaultEventName, s.defaultName)
}

func TestMergeSettingsRejectsUnknownBackend(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--backend", "mysql"}))

	_, err := mergeSettings(root, config.FileConfig{})
	require.Error(t, err)
}

func TestOpenGatewayMissingSupabaseCredentials(t *testing.T) {
	t.Setenv(config.EnvSupabaseURL, "")
	t.Setenv(config.EnvSupabaseKey, "")

	_, _, err := openGateway(settings{backend: config.BackendSupabase, table: store.DefaultTable})
	require.ErrorIs(t, err, store.ErrMissingCredentials)
	assert.Contains(t, err.Error(), config.EnvSupabaseKey)
}

func TestOpenGatewaySQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.db")
	gw, closeFn, err := openGateway(settings{backend: config.BackendSQLite, dbPath: path})
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, gw.InsertEvent(context.Background(), model.RawEvent{EventName: "A", EventDate: "2024-01-10"}))
	rows, err := gw.FetchAllEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInsertAllUsesBatchWhenAvailable(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()

	events := []model.RawEvent{
		{EventName: "A", EventDate: "2024-01-10"},
		{EventName: "A", EventDate: "2024-01-20"},
	}
	require.NoError(t, insertAll(context.Background(), st, events))
	n, err := st.CountEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInsertAllFallsBackToSingleInserts(t *testing.T) {
	gw := &loopGateway{}
	events := []model.RawEvent{
		{EventName: "A", EventDate: "2024-01-10"},
		{EventName: "B", EventDate: "2024-01-20"},
	}
	require.NoError(t, insertAll(context.Background(), gw, events))
	assert.Equal(t, events, gw.inserted)
}

func TestStoredCount(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()

	ctx := context.Background()
	require.NoError(t, insertAll(ctx, st, []model.RawEvent{
		{EventName: "A", EventDate: "2024-01-10"},
		{EventName: "B", EventDate: "2024-01-20"},
		{EventName: "A", EventDate: "2024-02-05"},
	}))

	n, ok := storedCount(ctx, st)
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = storedCount(ctx, st, "A")
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = storedCount(ctx, &loopGateway{})
	assert.False(t, ok)
}

func TestPrintSaved(t *testing.T) {
	raw := []model.RawEvent{
		{EventName: "Kopfschmerzen", EventDate: "2024-01-10"},
		{EventName: "Kopfschmerzen", EventDate: "2024-01-20"},
		{EventName: "Kopfschmerzen", EventDate: "2024-02-05"},
	}
	events, err := stats.ParseEvents(raw)
	require.NoError(t, err)
	now := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	report := stats.Analyze(events, stats.AllYears(events), now)

	var buf bytes.Buffer
	require.NoError(t, printSaved(&buf, raw[2], report))
	out := buf.String()
	assert.Contains(t, out, "Gespeichert: Kopfschmerzen am 2024-02-05")
	assert.Contains(t, out, "Ø Abstand: 13,0 Tage")
	assert.Contains(t, out, "Nächste Prognose: 18.02.2024 (in 4 Tagen)")
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evtrack", "config.toml")
	require.NoError(t, ensureConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[store]")

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[log]\nlevel = \"debug\"\n", string(data))
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, setupLogging(&buf, "loud"))
	require.NoError(t, setupLogging(&buf, "warn"))
}
