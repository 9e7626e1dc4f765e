package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Log is one immutable audit row.
type Log struct {
	ID         uuid.UUID
	ActorID    string
	ActorName  string
	Action     string
	TargetType string
	TargetID   string
	Metadata   []byte // JSON object
	IPAddress  string
	CreatedAt  time.Time
}

// Event describes an auditable action before actor/request details are
// filled in from the context.
type Event struct {
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

// Recorder is implemented by the audit service and accepted by core
// services that perform auditable mutations.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

type Repository interface {
	CreateLog(ctx context.Context, l *Log) error
	ListLogs(ctx context.Context, limit int) ([]*Log, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record writes an audit row. Auditing is best-effort: a failed write is
// logged but never fails the operation being audited.
func (s *Service) Record(ctx context.Context, e Event) {
	actorID, actorName := ActorFromContext(ctx)

	var metadata []byte
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			slog.Error("failed to marshal audit metadata", "action", e.Action, "error", err)
		} else {
			metadata = b
		}
	}

	l := &Log{
		ActorID:    actorID,
		ActorName:  actorName,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Metadata:   metadata,
		IPAddress:  IPAddressFromContext(ctx),
	}

	if err := s.repo.CreateLog(ctx, l); err != nil {
		slog.Error("failed to write audit log", "action", e.Action, "target", e.TargetID, "error", err)
	}
}

func (s *Service) List(ctx context.Context, limit int) ([]*Log, error) {
	return s.repo.ListLogs(ctx, limit)
}

// NopRecorder discards events. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) {}
