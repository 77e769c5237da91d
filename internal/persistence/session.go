package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"academycore/internal/core"
	"academycore/internal/kv"
	"academycore/pkg/domain"
)

var _ core.SessionStore = (*Adapter)(nil)

// SaveSession stores user under KeySession.
func (a *Adapter) SaveSession(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.kv.Set(ctx, KeySession, data); err != nil {
		return fmt.Errorf("write %s: %w", KeySession, err)
	}
	a.recorder.Written(KeySession)
	return nil
}

// LoadSession returns the stored user, or nil when none is stored.
func (a *Adapter) LoadSession(ctx context.Context) (*domain.User, error) {
	data, err := a.kv.Get(ctx, KeySession)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeySession, err)
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

// ClearSession removes the stored user.
func (a *Adapter) ClearSession(ctx context.Context) error {
	if err := a.kv.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("delete %s: %w", KeySession, err)
	}
	return nil
}
