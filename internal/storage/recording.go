package storage

import (
	"context"
	"errors"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
)

// RecordingService persists every successful response of the wrapped
// service. Persistence failures are logged; the caller still gets its widget.
type RecordingService struct {
	next  genservice.Service
	store Store
	log   logger.Logger
}

var _ genservice.Service = (*RecordingService)(nil)

// NewRecordingService wraps next.
func NewRecordingService(next genservice.Service, store Store, log logger.Logger) (*RecordingService, error) {
	if next == nil || store == nil {
		return nil, errors.New("storage: service and store are required")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RecordingService{next: next, store: store, log: log}, nil
}

// Generate calls the wrapped service and stores the new widget.
func (s *RecordingService) Generate(ctx context.Context, req genservice.GenerateRequest) (genservice.Response, error) {
	resp, err := s.next.Generate(ctx, req)
	if err != nil {
		return resp, err
	}
	s.save(ctx, RecordFromResponse(resp, req.UserID))
	return resp, nil
}

// Edit calls the wrapped service and updates the stored widget.
func (s *RecordingService) Edit(ctx context.Context, req genservice.EditRequest) (genservice.Response, error) {
	resp, err := s.next.Edit(ctx, req)
	if err != nil {
		return resp, err
	}
	s.save(ctx, RecordFromResponse(resp, ""))
	return resp, nil
}

// Examples delegates to the wrapped service.
func (s *RecordingService) Examples(ctx context.Context) ([]string, error) {
	return s.next.Examples(ctx)
}

func (s *RecordingService) save(ctx context.Context, rec Record) {
	if rec.ID == "" {
		return
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.log.WithError(err).Error("persist widget failed", map[string]any{"widget_id": rec.ID})
	}
}
