package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FloatRequestStatus is the state of an agent float top-up request.
// Allowed transitions: PENDING -> APPROVED, PENDING -> REJECTED, exactly once,
// and only by an admin account.
type FloatRequestStatus string

const (
	FloatPending  FloatRequestStatus = "PENDING"
	FloatApproved FloatRequestStatus = "APPROVED"
	FloatRejected FloatRequestStatus = "REJECTED"
)

// FloatRequest is an agent's request for a balance top-up, backed by a
// supporting document (deposit slip or similar).
type FloatRequest struct {
	RequestID     string             `json:"requestID"` // UUID
	AccountID     string             `json:"accountID"` // Requesting agent
	Amount        decimal.Decimal    `json:"amount"`
	Status        FloatRequestStatus `json:"status"`
	RequestDate   time.Time          `json:"requestDate"`
	ProcessedDate *time.Time         `json:"processedDate"` // Nil until terminal
	ProcessedBy   *string            `json:"processedBy"`   // Admin account id
	Document      []byte             `json:"-"`
	DocumentMime  string             `json:"documentMime"`
	DocumentName  string             `json:"documentName"`
	AuditFields
}

// IsPending reports whether the request can still be approved or rejected.
func (r *FloatRequest) IsPending() bool {
	return r.Status == FloatPending
}
