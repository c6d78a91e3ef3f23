package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FloatRequest is the persistence model for the float_requests table.
// The supporting document is stored inline as a bytea column.
type FloatRequest struct {
	RequestID     string          `db:"request_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	RequestDate   time.Time       `db:"request_date"`
	ProcessedDate *time.Time      `db:"processed_date"`
	ProcessedBy   *string         `db:"processed_by"`
	Document      []byte          `db:"document"`
	DocumentMime  string          `db:"document_mime"`
	DocumentName  string          `db:"document_name"`
	AuditFields
}
