package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
	"github.com/xvierd/dailo/internal/ports"
)

// Namespace keys the state snapshot in durable storage.
const Namespace = "dailo-storage"

// envelope is the on-disk and export shape.
type envelope struct {
	Version int                   `json:"version"`
	State   domain.PersistedState `json:"state"`
}

// Persisted returns the durable projection: UI flags are dropped and the
// timer is always stored paused.
func (s *Store) Persisted() domain.PersistedState {
	ps := s.GetState().PersistedState
	ps.PomodoroTimer.IsRunning = false
	return ps
}

// Snapshot serializes the persisted projection.
func (s *Store) Snapshot() (ports.Snapshot, error) {
	data, err := json.Marshal(s.Persisted())
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("failed to encode state: %w", err)
	}
	return ports.Snapshot{Version: CurrentVersion, Data: data, UpdatedAt: s.now()}, nil
}

// Load reads the snapshot from storage and replaces the state. Any read,
// parse or decode failure leaves the store on defaults; the error is
// returned only so the caller can log it.
func (s *Store) Load(ctx context.Context, storage ports.SnapshotStorage) error {
	snap, ok, err := storage.Load(ctx, Namespace)
	if err != nil {
		s.replace(domain.DefaultState().PersistedState)
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !ok {
		return nil
	}
	return s.Restore(snap.Version, snap.Data)
}

// Restore migrates and decodes a stored state blob. On failure the store
// falls back to defaults.
func (s *Store) Restore(version int, data []byte) error {
	ps, err := decodeSnapshot(version, data, s.now())
	if err != nil && !errors.Is(err, domain.ErrUnsupportedSchema) {
		s.replace(domain.DefaultState().PersistedState)
		return err
	}
	s.replace(ps)
	return err
}

// Export renders the persisted projection as an importable JSON file.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(envelope{Version: CurrentVersion, State: s.Persisted()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ExportFileName names an export taken at now.
func ExportFileName(now time.Time) string {
	return "dailo-backup-" + domain.FormatDate(now) + ".json"
}

// Import replaces the persisted state wholesale with the file contents.
// A file wrapped in a {version, state} envelope is migrated from that
// version. Anything else is read as a bare state of unknown age and runs
// the whole pipeline, which leaves current-shape records alone. Missing
// collections default to empty; malformed JSON or wrong-typed fields
// reject the whole import and leave the state untouched.
func (s *Store) Import(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: empty document", domain.ErrInvalidImport)
	}
	version := 0
	state := raw
	if envelope, ok := raw["state"]; ok {
		inner, ok := envelope.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: state is not an object", domain.ErrInvalidImport)
		}
		v, ok := raw["version"].(float64)
		if !ok {
			return fmt.Errorf("%w: missing version", domain.ErrInvalidImport)
		}
		version, state = int(v), inner
	}
	if !hasStateKey(state) {
		return fmt.Errorf("%w: no dashboard data found", domain.ErrInvalidImport)
	}
	migrated, err := Migrate(state, version, s.now())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	ps, err := decodeState(migrated)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	s.replace(ps)
	return nil
}

// stateKeys are the top-level fields of a persisted state, legacy
// shapes included.
var stateKeys = []string{
	"widgets", "todos", "tasks", "activeTaskId", "timeBlocks", "habits", "notes",
	"activeNoteId", "pomodoroSettings", "pomodoroTimer", "customStreams", "theme", "playback",
}

func hasStateKey(state map[string]any) bool {
	for _, k := range stateKeys {
		if _, ok := state[k]; ok {
			return true
		}
	}
	return false
}

func decodeSnapshot(version int, data []byte, now time.Time) (domain.PersistedState, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.PersistedState{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	migrated, migErr := Migrate(raw, version, now)
	ps, err := decodeState(migrated)
	if err != nil {
		return domain.PersistedState{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return ps, migErr
}

// decodeState maps a migrated raw state onto the typed projection and
// repairs anything a partial file leaves unset.
func decodeState(raw map[string]any) (domain.PersistedState, error) {
	var ps domain.PersistedState
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     &ps,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return ps, err
	}
	if err := dec.Decode(raw); err != nil {
		return ps, err
	}
	return withDefaults(ps), nil
}

func withDefaults(ps domain.PersistedState) domain.PersistedState {
	def := domain.DefaultState().PersistedState
	if len(ps.Widgets) == 0 {
		ps.Widgets = def.Widgets
	}
	for i := range ps.Widgets {
		ps.Widgets[i].Height = domain.ClampHeight(ps.Widgets[i].Height)
		ps.Widgets[i].Width = domain.ClampWidth(ps.Widgets[i].Width)
		if ps.Widgets[i].Column < 0 || ps.Widgets[i].Column >= domain.ColumnCount {
			ps.Widgets[i].Column = domain.ColumnCount - 1
		}
	}
	ps.Widgets = layout.NormalizeWidgets(ps.Widgets)

	if ps.Todos == nil {
		ps.Todos = []domain.Todo{}
	}
	if ps.Tasks == nil {
		ps.Tasks = []domain.Task{}
	}
	for i := range ps.Tasks {
		if ps.Tasks[i].Tags == nil {
			ps.Tasks[i].Tags = []string{}
		}
	}
	ps.Tasks = layout.NormalizeTasks(ps.Tasks)
	if ps.TimeBlocks == nil {
		ps.TimeBlocks = []domain.TimeBlock{}
	}
	if ps.Habits == nil {
		ps.Habits = []domain.Habit{}
	}
	for i := range ps.Habits {
		if ps.Habits[i].Type == "" {
			ps.Habits[i].Type = domain.HabitBinary
		}
		if ps.Habits[i].DayData == nil {
			ps.Habits[i].DayData = []domain.DayEntry{}
		}
		ps.Habits[i] = ps.Habits[i].Apply(domain.HabitPatch{})
	}
	if ps.Notes == nil {
		ps.Notes = []domain.Note{}
	}
	if ps.CustomStreams == nil {
		ps.CustomStreams = []domain.CustomStream{}
	}

	if ps.PomodoroSettings == (domain.PomodoroSettings{}) {
		ps.PomodoroSettings = def.PomodoroSettings
	}
	ps.PomodoroSettings = ps.PomodoroSettings.Normalize()
	if _, err := domain.ParsePhase(string(ps.PomodoroTimer.Phase)); err != nil {
		ps.PomodoroTimer = domain.NewTimerState(ps.PomodoroSettings)
	}
	ps.PomodoroTimer.IsRunning = false

	if ps.Theme != domain.ThemeLight {
		ps.Theme = domain.ThemeDark
	}

	pb := def.Playback
	for id, v := range ps.Playback.Ambient.Volumes {
		pb.Ambient.Volumes[id] = domain.ClampVolume(v)
	}
	for id, on := range ps.Playback.Ambient.Enabled {
		pb.Ambient.Enabled[id] = on
	}
	if ps.Playback.Lofi != (domain.LofiSettings{}) {
		pb.Lofi = ps.Playback.Lofi
		pb.Lofi.Volume = domain.ClampVolume(pb.Lofi.Volume)
	}
	ps.Playback = pb
	return ps
}
