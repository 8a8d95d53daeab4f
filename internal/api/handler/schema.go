package handler

import (
	"bytes"
	"encoding/json"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=72"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// createTransactionRequest leaves presence checks to the ledger so that one
// response can name every invalid field.
type createTransactionRequest struct {
	Type     string     `json:"type"     validate:"max=16"`
	Category string     `json:"category" validate:"max=120"`
	Amount   amountText `json:"amount"   swaggertype:"string" example:"1000.50"`
	Date     string     `json:"date"     validate:"max=32"`
	Desc     string     `json:"desc"     validate:"max=500"`
}

// amountText accepts a JSON number or a JSON string and keeps the raw text
// for the ledger to parse. Any other JSON value is kept verbatim and fails
// parsing there; null is treated as missing.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
	default:
		*a = amountText(b)
	}
	return nil
}

// --- Response types ---

type okResponse struct {
	OK bool `json:"ok"`
}

type loginResponse struct {
	OK       bool   `json:"ok"`
	Username string `json:"username"`
}

type meResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

type categoryListResponse struct {
	Categories []domain.Category `json:"categories"`
}

type categoryCreatedResponse struct {
	OK   bool   `json:"ok"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type transactionListResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type transactionCreatedResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}
