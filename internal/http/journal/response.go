package journal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/journal"
)

type lineResponse struct {
	ID          uuid.UUID   `json:"id"`
	AccountID   uuid.UUID   `json:"accountId"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	Debit       json.Number `json:"debit"`
	Credit      json.Number `json:"credit"`
	Description string      `json:"description,omitempty"`
}

type entryResponse struct {
	ID            uuid.UUID      `json:"id"`
	EntryNumber   string         `json:"entryNumber"`
	EntryDate     string         `json:"entryDate"`
	Description   string         `json:"description,omitempty"`
	ReferenceType string         `json:"referenceType,omitempty"`
	ReferenceID   *uuid.UUID     `json:"referenceId,omitempty"`
	TotalDebit    json.Number    `json:"totalDebit"`
	TotalCredit   json.Number    `json:"totalCredit"`
	IsPosted      bool           `json:"isPosted"`
	IsReversed    bool           `json:"isReversed"`
	Lines         []lineResponse `json:"lines"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toResponse(e *journal.Entry) entryResponse {
	lines := make([]lineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = lineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       amount(l.Debit),
			Credit:      amount(l.Credit),
			Description: l.Description,
		}
	}

	return entryResponse{
		ID:            e.ID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate.Format(time.DateOnly),
		Description:   e.Description,
		ReferenceType: string(e.ReferenceType),
		ReferenceID:   e.ReferenceID,
		TotalDebit:    amount(e.TotalDebit),
		TotalCredit:   amount(e.TotalCredit),
		IsPosted:      e.IsPosted,
		IsReversed:    e.IsReversed,
		Lines:         lines,
		CreatedAt:     e.CreatedAt,
	}
}

func toResponseList(entries []*journal.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
