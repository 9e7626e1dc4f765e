package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openledgerhq/ledgerd/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateLog(ctx context.Context, l *audit.Log) error {
	query := `
		INSERT INTO audit_logs (actor_id, actor_name, action, target_type, target_id, metadata, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb), $7, NOW())
		RETURNING id, created_at
	`

	var metadata any
	if len(l.Metadata) > 0 {
		metadata = l.Metadata
	}

	err := s.db.QueryRowContext(ctx, query,
		l.ActorID,
		l.ActorName,
		l.Action,
		l.TargetType,
		l.TargetID,
		metadata,
		l.IPAddress,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating audit log: %w", err)
	}

	return nil
}

func (s *Store) ListLogs(ctx context.Context, limit int) ([]*audit.Log, error) {
	query := `
		SELECT id, actor_id, actor_name, action, target_type, target_id, metadata, ip_address, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*audit.Log

	for rows.Next() {
		var l audit.Log
		if err := rows.Scan(
			&l.ID, &l.ActorID, &l.ActorName, &l.Action, &l.TargetType, &l.TargetID,
			&l.Metadata, &l.IPAddress, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit log: %w", err)
		}

		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit logs: %w", err)
	}

	return logs, nil
}
