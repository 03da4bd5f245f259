package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Checkpoint saves the current grammar under label to s.Snapshots, for a
// caller (typically a plug-in host, before calling a risky Initialize) to
// roll back to with RestoreSnapshot. Returns an error if no Snapshots store
// is configured.
func (s *Session) Checkpoint(ctx context.Context, label string) (uuid.UUID, error) {
	if s.Snapshots == nil {
		return uuid.UUID{}, fmt.Errorf("session: no snapshot store configured")
	}
	return s.Snapshots.Save(ctx, label, s.Grammar)
}

// RestoreSnapshot replaces the session's grammar with the one saved under
// id (with the Version it had when saved) and drops the cached Scanner so
// it is recompiled on next use.
func (s *Session) RestoreSnapshot(ctx context.Context, id uuid.UUID) error {
	if s.Snapshots == nil {
		return fmt.Errorf("session: no snapshot store configured")
	}
	restored, err := s.Snapshots.Restore(ctx, id)
	if err != nil {
		return err
	}
	s.Grammar = restored
	s.scanner = nil
	return nil
}
