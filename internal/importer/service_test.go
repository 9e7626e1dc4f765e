package importer_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/ledgerd/internal/importer"
	"github.com/openledgerhq/ledgerd/internal/journal"
)

// stubPoster fails entries whose description matches reject and records
// everything it is asked to post.
type stubPoster struct {
	reject string
	posted []journal.PostParams
}

func (p *stubPoster) Post(_ context.Context, params journal.PostParams) (*journal.Entry, error) {
	if p.reject != "" && params.Description == p.reject {
		return nil, &journal.UnbalancedError{}
	}

	p.posted = append(p.posted, params)

	return &journal.Entry{
		ID:          uuid.New(),
		EntryNumber: "JE-20240115-0001",
		EntryDate:   params.EntryDate,
		Description: params.Description,
	}, nil
}

func upload(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(
		append([]string{importer.Header}, lines...), "\n",
	))
}

func TestService_Import(t *testing.T) {
	poster := &stubPoster{}
	svc := importer.NewService(poster)

	result, err := svc.Import(context.Background(), upload(
		"2024-01-15,sale-1,1000,1000.00,,Cash sale",
		"2024-01-15,sale-1,4000,,1000.00,Cash sale",
		"2024-01-16,rent,6000,250,,Rent",
		"2024-01-16,rent,1000,,250,Rent",
	))
	require.NoError(t, err)

	assert.Len(t, result.Posted, 2)
	assert.Empty(t, result.RowErrors)
	assert.Empty(t, result.Failed)

	require.Len(t, poster.posted, 2)
	assert.Len(t, poster.posted[0].Lines, 2)
	assert.Equal(t, journal.RefManual, poster.posted[0].ReferenceType)
}

func TestService_Import_BadEntrySkipped(t *testing.T) {
	poster := &stubPoster{reject: "Broken"}
	svc := importer.NewService(poster)

	result, err := svc.Import(context.Background(), upload(
		"2024-01-15,a,1000,100,,Good",
		"2024-01-15,a,4000,,100,Good",
		"2024-01-16,b,1000,999,,Broken",
		"2024-01-16,b,4000,,1,Broken",
	))
	require.NoError(t, err)

	// The unbalanced entry is reported; the balanced one still posts.
	assert.Len(t, result.Posted, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Broken", result.Failed[0].Description)
	assert.NotEmpty(t, result.Failed[0].Err)
}

func TestService_Import_RowErrorsSurvive(t *testing.T) {
	poster := &stubPoster{}
	svc := importer.NewService(poster)

	result, err := svc.Import(context.Background(), upload(
		"garbage,a,1000,100,,Bad row",
		"2024-01-15,a,1000,100,,Good",
		"2024-01-15,a,4000,,100,Good",
	))
	require.NoError(t, err)

	assert.Len(t, result.Posted, 1)
	assert.Len(t, result.RowErrors, 1)
	assert.Empty(t, result.Failed)
}
