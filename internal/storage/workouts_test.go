package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/logging"
)

const testDir = "/data/IntervalTimer"

func openTestStore(t *testing.T, fs afero.Fs) *WorkoutStore {
	t.Helper()
	store, err := OpenWorkoutStore(fs, testDir, logging.Nop())
	require.NoError(t, err)
	return store
}

func TestWorkoutStore_OpenMissingFile(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())

	assert.Empty(t, store.List())
	assert.Equal(t, filepath.Join(testDir, WorkoutsFileName), store.Path())
}

func TestWorkoutStore_SaveThenLoadRoundTrip(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())
	current := model.WorkoutConfig{
		Mode:         model.ModeIntervals,
		WorkTime:     40,
		RestTime:     20,
		TotalTime:    600,
		IntervalTime: 60,
	}

	saved, err := store.Save("Tabata-ish", current)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Tabata-ish", saved.Name)

	loaded, err := store.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	expected := current
	expected.ID = saved.ID
	expected.Name = "Tabata-ish"
	assert.Equal(t, expected, loaded)
}

func TestWorkoutStore_IDsAreUniqueAndOrdered(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())
	config := model.DefaultWorkoutConfig()

	seen := make(map[string]bool)
	var names []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		saved, err := store.Save(name, config)
		require.NoError(t, err)
		assert.False(t, seen[saved.ID], "duplicate id %s", saved.ID)
		seen[saved.ID] = true
		names = append(names, name)
	}

	var listed []string
	for _, workout := range store.List() {
		listed = append(listed, workout.Name)
	}
	assert.Equal(t, names, listed)
}

func TestWorkoutStore_LoadUnknown(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())

	_, err := store.Load("missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestWorkoutStore_Delete(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := openTestStore(t, fs)

	first, err := store.Save("first", model.DefaultWorkoutConfig())
	require.NoError(t, err)
	second, err := store.Save("second", model.DefaultWorkoutConfig())
	require.NoError(t, err)

	require.NoError(t, store.Delete(first.ID))
	assert.Equal(t, []model.WorkoutConfig{second}, store.List())

	reopened := openTestStore(t, fs)
	assert.Equal(t, []model.WorkoutConfig{second}, reopened.List())
}

func TestWorkoutStore_DeleteUnknownIsNoop(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())
	saved, err := store.Save("only", model.DefaultWorkoutConfig())
	require.NoError(t, err)

	before := store.List()
	require.NoError(t, store.Delete("not-a-real-id"))
	assert.Equal(t, before, store.List())
	assert.Equal(t, saved.ID, store.List()[0].ID)
}

func TestWorkoutStore_PersistsUnderSingleKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := openTestStore(t, fs)
	saved, err := store.Save("EMOM 10", model.WorkoutConfig{Mode: model.ModeEMOM, TotalTime: 600, IntervalTime: 60})
	require.NoError(t, err)

	raw, err := afero.ReadFile(fs, store.Path())
	require.NoError(t, err)

	var document map[string][]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &document))
	require.Len(t, document, 1)
	records := document["timer-workouts"]
	require.Len(t, records, 1)
	assert.Equal(t, saved.ID, records[0]["id"])
	assert.Equal(t, "emom", records[0]["mode"])
	assert.Equal(t, 60, records[0]["intervalTime"])

	reopened := openTestStore(t, fs)
	assert.Equal(t, []model.WorkoutConfig{saved}, reopened.List())
}

func TestWorkoutStore_CorruptFileIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "timer-workouts: [oops"},
		{name: "wrong shape", content: "timer-workouts: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, filepath.Join(testDir, WorkoutsFileName), []byte(tt.content), 0o644))

			var logs bytes.Buffer
			store, err := OpenWorkoutStore(fs, testDir, logging.New(&logs, logging.LevelDebug))
			require.NoError(t, err)
			assert.Empty(t, store.List())
			assert.Contains(t, logs.String(), "WARN")

			_, err = store.Save("fresh", model.DefaultWorkoutConfig())
			require.NoError(t, err)
			assert.Len(t, openTestStore(t, fs).List(), 1)
		})
	}
}

func TestWorkoutStore_SkipsRecordsWithoutID(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `timer-workouts:
  - id: "01J8X5YNFZ4TQ5H5N5RQNT5P78"
    name: kept
    mode: intervals
    workTime: 30
    restTime: 10
    totalTime: 300
    intervalTime: 60
  - name: no id
    mode: emom
  - id: "01J8X5YNFZ4TQ5H5N5RQNT5P78"
    name: duplicate
`
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testDir, WorkoutsFileName), []byte(content), 0o644))

	workouts := openTestStore(t, fs).List()
	require.Len(t, workouts, 1)
	assert.Equal(t, "kept", workouts[0].Name)
	assert.Equal(t, 30, workouts[0].WorkTime)
}

func TestWorkoutStore_SaveFailureLeavesListUnchanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := openTestStore(t, fs)
	_, err := store.Save("kept", model.DefaultWorkoutConfig())
	require.NoError(t, err)

	store.fs = afero.NewReadOnlyFs(fs)
	_, err = store.Save("lost", model.DefaultWorkoutConfig())
	require.Error(t, err)

	require.Len(t, store.List(), 1)
	assert.Equal(t, "kept", store.List()[0].Name)
}

func TestWorkoutStore_ListReturnsCopy(t *testing.T) {
	store := openTestStore(t, afero.NewMemMapFs())
	_, err := store.Save("original", model.DefaultWorkoutConfig())
	require.NoError(t, err)

	listed := store.List()
	listed[0].Name = "mutated"

	assert.Equal(t, "original", store.List()[0].Name)
}
