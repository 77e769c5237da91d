// Package persistence loads the academy state from a kv substrate, merging it
// with seed data, and writes it back after every change.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"academycore/internal/core"
	"academycore/internal/kv"
	"academycore/internal/seed"
)

// Storage keys.
const (
	KeyData     = "academy_data"
	KeySession  = "academy_user"
	KeyDarkMode = "academy_dark_mode"
)

// Skip reasons reported to the Recorder.
const (
	SkipEmptyStudents = "empty_students"
)

// Recorder observes writes.
type Recorder interface {
	Written(key string)
	Skipped(reason string)
}

type noopRecorder struct{}

func (noopRecorder) Written(string) {}
func (noopRecorder) Skipped(string) {}

// Config configures an Adapter.
type Config struct {
	Store kv.Store
	// Seed builds the fallback state. Defaults to seed.State.
	Seed     func() core.State
	Policies Policies
	Logger   *slog.Logger
	Recorder Recorder
}

// Adapter moves the state between a Store and a kv substrate.
type Adapter struct {
	kv       kv.Store
	seed     func() core.State
	policies Policies
	logger   *slog.Logger
	recorder Recorder
}

// New builds an adapter from cfg.
func New(cfg Config) (*Adapter, error) {
	if cfg.Store == nil {
		return nil, errors.New("persistence: kv store required")
	}
	a := &Adapter{
		kv:       cfg.Store,
		seed:     cfg.Seed,
		policies: cfg.Policies,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}
	if a.seed == nil {
		a.seed = seed.State
	}
	if a.policies == nil {
		a.policies = DefaultPolicies()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.recorder == nil {
		a.recorder = noopRecorder{}
	}
	return a, nil
}

// KV returns the underlying substrate.
func (a *Adapter) KV() kv.Store { return a.kv }

// Load returns the persisted state merged with seed. A missing or unparsable
// blob yields the seed state. A substrate failure yields the seed state
// together with the error.
func (a *Adapter) Load(ctx context.Context) (core.State, error) {
	base := a.seed()
	data, err := a.kv.Get(ctx, KeyData)
	if errors.Is(err, kv.ErrNotFound) {
		a.logger.Debug("no persisted snapshot, using seed")
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("read %s: %w", KeyData, err)
	}
	snap, err := decode(data)
	if err != nil {
		a.logger.Warn("discarding unreadable snapshot", "key", KeyData, "error", err)
		return base, nil
	}
	return merge(snap, base, a.policies), nil
}

// Save writes the entity collections of st. A state without students is not
// written over a stored snapshot that has some.
func (a *Adapter) Save(ctx context.Context, st core.State) error {
	if len(st.Students) == 0 && a.storedHasStudents(ctx) {
		a.recorder.Skipped(SkipEmptyStudents)
		a.logger.Debug("skipping save of empty state", "key", KeyData)
		return nil
	}
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := a.kv.Set(ctx, KeyData, data); err != nil {
		return fmt.Errorf("write %s: %w", KeyData, err)
	}
	a.recorder.Written(KeyData)
	return nil
}

func (a *Adapter) storedHasStudents(ctx context.Context) bool {
	data, err := a.kv.Get(ctx, KeyData)
	if err != nil {
		return false
	}
	snap, err := decode(data)
	if err != nil {
		return false
	}
	return len(snap.state.Students) > 0
}

// Export returns the stored blob, or the encoded seed state when nothing is
// stored.
func (a *Adapter) Export(ctx context.Context) ([]byte, error) {
	data, err := a.kv.Get(ctx, KeyData)
	if errors.Is(err, kv.ErrNotFound) {
		return Encode(a.seed())
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyData, err)
	}
	return data, nil
}

// Reset overwrites the stored blob with the seed state and returns it.
func (a *Adapter) Reset(ctx context.Context) (core.State, error) {
	st := a.seed()
	if err := a.Save(ctx, st); err != nil {
		return st, err
	}
	return st, nil
}

// LoadDarkMode reads the theme preference. Anything but "true" is false.
func (a *Adapter) LoadDarkMode(ctx context.Context) bool {
	data, err := a.kv.Get(ctx, KeyDarkMode)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			a.logger.Warn("read dark mode", "error", err)
		}
		return false
	}
	enabled, err := strconv.ParseBool(string(data))
	return err == nil && enabled
}

// SaveDarkMode writes the theme preference as "true" or "false".
func (a *Adapter) SaveDarkMode(ctx context.Context, enabled bool) error {
	if err := a.kv.Set(ctx, KeyDarkMode, []byte(strconv.FormatBool(enabled))); err != nil {
		return fmt.Errorf("write %s: %w", KeyDarkMode, err)
	}
	a.recorder.Written(KeyDarkMode)
	return nil
}

// Hydrate loads the persisted state and preference into store.
func (a *Adapter) Hydrate(ctx context.Context, store *core.Store) error {
	store.Dispatch(core.SetLoading{Loading: true})
	st, err := a.Load(ctx)
	store.Dispatch(core.Initialize{State: st}, core.SetDarkMode{Enabled: a.LoadDarkMode(ctx)})
	return err
}

// Attach subscribes the adapter to store: every transition that changes an
// entity collection writes the blob, and a changed theme writes its key.
// Write failures are logged. The returned function detaches the adapter.
func (a *Adapter) Attach(ctx context.Context, store *core.Store) func() {
	return store.Subscribe(func(t core.Transition) {
		if t.Touches() {
			if err := a.Save(ctx, t.Next); err != nil {
				a.logger.Error("persist snapshot", "error", err)
			}
		}
		if t.Prev.DarkMode != t.Next.DarkMode {
			if err := a.SaveDarkMode(ctx, t.Next.DarkMode); err != nil {
				a.logger.Error("persist dark mode", "error", err)
			}
		}
	})
}
