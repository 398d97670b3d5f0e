package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/logging"
)

// WorkoutsFileName is the file holding the saved workout collection.
const WorkoutsFileName = "workouts.yaml"

// ErrNotFound indicates no saved workout has the requested id.
var ErrNotFound = errors.New("workout not found")

// workoutsDocument is the on-disk format: the whole collection under one key.
type workoutsDocument struct {
	Workouts []model.WorkoutConfig `yaml:"timer-workouts"`
}

// WorkoutStore keeps named workout configurations in insertion order. The
// collection is read once when the store opens and rewritten on every change.
type WorkoutStore struct {
	mu       sync.Mutex
	fs       afero.Fs
	path     string
	logger   logging.Logger
	workouts []model.WorkoutConfig
	entropy  io.Reader
	now      func() time.Time
}

// OpenWorkoutStore loads the collection stored in dir. A missing file yields an
// empty store; an unparsable one is logged and treated as empty.
func OpenWorkoutStore(fs afero.Fs, dir string, logger logging.Logger) (*WorkoutStore, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	store := &WorkoutStore{
		fs:      fs,
		path:    filepath.Join(dir, WorkoutsFileName),
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}

	rawData, err := afero.ReadFile(fs, store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read workouts file: %w", err)
	}

	var document workoutsDocument
	if err := yaml.Unmarshal(rawData, &document); err != nil {
		logger.Warn("ignoring unreadable workouts file %s: %v", store.path, err)
		return store, nil
	}

	seen := make(map[string]bool, len(document.Workouts))
	for _, workout := range document.Workouts {
		if workout.ID == "" || seen[workout.ID] {
			logger.Warn("skipping saved workout %q with missing or duplicate id", workout.Name)
			continue
		}
		seen[workout.ID] = true
		store.workouts = append(store.workouts, workout)
	}
	return store, nil
}

// Path returns the file backing the store.
func (store *WorkoutStore) Path() string {
	return store.path
}

// Save stores a snapshot of config under name with a fresh id and returns it.
func (store *WorkoutStore) Save(name string, config model.WorkoutConfig) (model.WorkoutConfig, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id, err := store.newIDLocked()
	if err != nil {
		return model.WorkoutConfig{}, err
	}

	workout := config
	workout.ID = id
	workout.Name = name

	previous := store.workouts
	store.workouts = append(append([]model.WorkoutConfig(nil), previous...), workout)
	if err := store.persistLocked(); err != nil {
		store.workouts = previous
		return model.WorkoutConfig{}, err
	}
	return workout, nil
}

// List returns the saved workouts in insertion order.
func (store *WorkoutStore) List() []model.WorkoutConfig {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]model.WorkoutConfig(nil), store.workouts...)
}

// Load returns the workout with the given id.
func (store *WorkoutStore) Load(id string) (model.WorkoutConfig, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if index := store.indexLocked(id); index >= 0 {
		return store.workouts[index], nil
	}
	return model.WorkoutConfig{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes the workout with the given id. Unknown ids are ignored.
func (store *WorkoutStore) Delete(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(id)
	if index < 0 {
		return nil
	}

	previous := store.workouts
	remaining := make([]model.WorkoutConfig, 0, len(previous)-1)
	remaining = append(remaining, previous[:index]...)
	remaining = append(remaining, previous[index+1:]...)
	store.workouts = remaining

	if err := store.persistLocked(); err != nil {
		store.workouts = previous
		return err
	}
	return nil
}

func (store *WorkoutStore) indexLocked(id string) int {
	for index, workout := range store.workouts {
		if workout.ID == id {
			return index
		}
	}
	return -1
}

func (store *WorkoutStore) newIDLocked() (string, error) {
	for {
		id, err := ulid.New(ulid.Timestamp(store.now()), store.entropy)
		if err != nil {
			return "", fmt.Errorf("generate workout id: %w", err)
		}
		if store.indexLocked(id.String()) < 0 {
			return id.String(), nil
		}
	}
}

func (store *WorkoutStore) persistLocked() error {
	serialized, err := yaml.Marshal(workoutsDocument{Workouts: store.workouts})
	if err != nil {
		return fmt.Errorf("marshal workouts yaml: %w", err)
	}
	if err := writeFileAtomic(store.fs, store.path, serialized); err != nil {
		return fmt.Errorf("write workouts file: %w", err)
	}
	return nil
}
