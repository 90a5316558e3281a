package store

import (
	"path/filepath"
	"testing"

	"github.com/just-rehan/vitality-companion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DataDir:    dir,
			SQLitePath: filepath.Join(dir, "test.db"),
			BadgerPath: filepath.Join(dir, "badger"),
		},
	}

	st, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

type testMed struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Time         string `json:"time"`
	ReminderSent bool   `json:"reminderSent"`
}

func TestKV_RoundTrip(t *testing.T) {
	st := setupTestStore(t)

	meds := []testMed{
		{ID: "1", Name: "Metformin", Time: "08:00"},
		{ID: "2", Name: "Lisinopril", Time: "20:00", ReminderSent: true},
	}

	require.NoError(t, Save(st, KeyMedications, meds))

	loaded := Load(st, KeyMedications, []testMed{})
	assert.Equal(t, meds, loaded)
}

func TestKV_RoundTripEmpty(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, Save(st, KeyAllergies, []testMed{}))

	loaded := Load(st, KeyAllergies, []testMed{{ID: "seed"}})
	assert.Empty(t, loaded)
}

func TestKV_MissingKeyReturnsDefault(t *testing.T) {
	st := setupTestStore(t)

	def := []testMed{{ID: "seed", Name: "Metformin"}}
	loaded := Load(st, "vp_never_written", def)
	assert.Equal(t, def, loaded)
}

func TestKV_MalformedBlobFailsSoft(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.SetKV(KeyVitals, []byte("{not json at all")))

	def := []testMed{{ID: "seed"}}
	loaded := Load(st, KeyVitals, def)
	assert.Equal(t, def, loaded)
}

func TestKV_ShapeMismatchFailsSoft(t *testing.T) {
	st := setupTestStore(t)

	// A blob written by a different schema version: valid JSON, wrong shape.
	require.NoError(t, st.SetKV(KeyMedications, []byte(`{"version":2}`)))

	def := []testMed{{ID: "seed"}}
	loaded := Load(st, KeyMedications, def)
	assert.Equal(t, def, loaded)
}

func TestKV_OverwriteReplaces(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, Save(st, KeySOSHistory, []testMed{{ID: "old"}}))
	require.NoError(t, Save(st, KeySOSHistory, []testMed{{ID: "new"}}))

	loaded := Load(st, KeySOSHistory, []testMed{})
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].ID)
}
