package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/openledgerhq/ledgerd/internal/journal"
)

// Poster posts one journal entry. Satisfied by *journal.Service.
type Poster interface {
	Post(ctx context.Context, params journal.PostParams) (*journal.Entry, error)
}

type Service struct {
	poster Poster
}

func NewService(poster Poster) *Service {
	return &Service{poster: poster}
}

// EntryError reports an entry that failed validation or posting.
type EntryError struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Err         string `json:"error"`
}

type Result struct {
	Posted    []*journal.Entry
	RowErrors []RowError
	Failed    []EntryError
}

// Import parses a journal CSV upload and posts each grouped entry through
// the posting engine. Each entry posts independently: a bad entry is
// reported and skipped, the rest go through.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	rows, rowErrs, err := ParseRows(r)
	if err != nil {
		return nil, fmt.Errorf("parsing upload: %w", err)
	}

	result := &Result{RowErrors: rowErrs}

	for i, params := range GroupRows(rows) {
		entry, err := s.poster.Post(ctx, params)
		if err != nil {
			result.Failed = append(result.Failed, EntryError{
				Index:       i,
				Description: params.Description,
				Err:         err.Error(),
			})

			continue
		}

		result.Posted = append(result.Posted, entry)
	}

	return result, nil
}
