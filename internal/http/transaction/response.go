package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type transactionResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	GroupID            *uuid.UUID                `json:"group_id,omitempty"`
	Description        string                    `json:"description"`
	Amount             int64                     `json:"amount"`
	Category           string                    `json:"category"`
	Type               transaction.Type          `json:"type"`
	Status             transaction.Status        `json:"status"`
	Date               string                    `json:"date"`
	PaidAt             *time.Time                `json:"paid_at,omitempty"`
	IsRecurring        bool                      `json:"is_recurring"`
	InstallmentCurrent int                       `json:"installment_current,omitempty"`
	InstallmentTotal   int                       `json:"installment_total,omitempty"`
	CardID             *uuid.UUID                `json:"card_id,omitempty"`
	PaymentMethod      transaction.PaymentMethod `json:"payment_method"`
	CreatedAt          time.Time                 `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                 tx.ID,
		GroupID:            tx.GroupID,
		Description:        tx.Description,
		Amount:             tx.Amount,
		Category:           tx.Category,
		Type:               tx.Type,
		Status:             tx.Status,
		Date:               tx.Date.Format(time.DateOnly),
		PaidAt:             tx.PaidAt,
		IsRecurring:        tx.IsRecurring,
		InstallmentCurrent: tx.InstallmentCurrent,
		InstallmentTotal:   tx.InstallmentTotal,
		CardID:             tx.CardID,
		PaymentMethod:      tx.PaymentMethod,
		CreatedAt:          tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
