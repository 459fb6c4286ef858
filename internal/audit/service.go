package audit

import (
	"context"
	"log/slog"
	"time"

	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

// Streamer is the optional fan-out sink behind the store append.
type Streamer interface {
	Publish(ctx context.Context, entry Entry)
}

// Service appends and queries the access trail. The store append is
// synchronous and authoritative; the streamer, when present, is fired
// after a successful append and never affects the outcome.
type Service struct {
	store    Store
	streamer Streamer
	logger   *slog.Logger
}

func NewService(store Store, streamer Streamer, logger *slog.Logger) *Service {
	return &Service{store: store, streamer: streamer, logger: logger}
}

func (s *Service) Append(ctx context.Context, entry Entry) error {
	if entry.ID.IsNil() {
		entry.ID = domain.NewEntryID()
	}
	if entry.DecidedAt.IsZero() {
		entry.DecidedAt = time.Now().UTC()
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append access log entry")
	}
	if s.streamer != nil {
		s.streamer.Publish(ctx, entry)
	}
	return nil
}

func (s *Service) ForSubject(ctx context.Context, subject domain.DID, limit int) ([]Entry, error) {
	entries, err := s.store.ListBySubject(ctx, subject, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query access log")
	}
	return entries, nil
}

func (s *Service) ForAccessor(ctx context.Context, accessor domain.DID, limit int) ([]Entry, error) {
	entries, err := s.store.ListByAccessor(ctx, accessor, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query access log")
	}
	return entries, nil
}
