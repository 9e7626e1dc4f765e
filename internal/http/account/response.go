package account

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
)

type accountResponse struct {
	ID          uuid.UUID    `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	AccountType account.Type `json:"accountType"`
	Category    string       `json:"category,omitempty"`
	ParentID    *uuid.UUID   `json:"parentId,omitempty"`
	Description string       `json:"description,omitempty"`
	IsSystem    bool         `json:"isSystem"`
	IsActive    bool         `json:"isActive"`
	Balance     json.Number  `json:"balance"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
}

// amount renders a decimal as a bare JSON number with two fractional
// digits, the UI's currency precision.
func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: a.Type,
		Category:    a.Category,
		ParentID:    a.ParentID,
		Description: a.Description,
		IsSystem:    a.IsSystem,
		IsActive:    a.IsActive,
		Balance:     amount(a.Balance),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toResponseList(accounts []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	return resp
}
