package dto

import (
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FloatDecision is an admin's verdict on a pending float request.
type FloatDecision string

const (
	FloatApprove FloatDecision = "APPROVE"
	FloatReject  FloatDecision = "REJECT"
)

// SubmitFloatRequest carries an agent's top-up request. The document arrives as
// a multipart upload; the handler reads it into memory before calling the service.
type SubmitFloatRequest struct {
	Amount       decimal.Decimal
	Document     []byte
	DocumentMime string
	DocumentName string
}

// ProcessFloatRequestRequest is the admin decision payload.
type ProcessFloatRequestRequest struct {
	Decision FloatDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
}

// FloatRequestResponse defines the data returned for a float request. The
// document blob itself is served by a dedicated download endpoint.
type FloatRequestResponse struct {
	RequestID     string                    `json:"requestID"`
	AccountID     string                    `json:"accountID"`
	Amount        decimal.Decimal           `json:"amount"`
	Status        domain.FloatRequestStatus `json:"status"`
	RequestDate   time.Time                 `json:"requestDate"`
	ProcessedDate *time.Time                `json:"processedDate,omitempty"`
	ProcessedBy   *string                   `json:"processedBy,omitempty"`
	DocumentName  string                    `json:"documentName"`
	DocumentMime  string                    `json:"documentMime"`
}

// ListFloatRequestsParams narrows a float request listing.
type ListFloatRequestsParams struct {
	Status    *domain.FloatRequestStatus
	Limit     int
	NextToken *string
}

// ListFloatRequestsResponse is a page of float requests.
type ListFloatRequestsResponse struct {
	Requests  []FloatRequestResponse `json:"requests"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToFloatRequestResponse converts a domain.FloatRequest to its DTO.
func ToFloatRequestResponse(r *domain.FloatRequest) FloatRequestResponse {
	return FloatRequestResponse{
		RequestID:     r.RequestID,
		AccountID:     r.AccountID,
		Amount:        r.Amount,
		Status:        r.Status,
		RequestDate:   r.RequestDate,
		ProcessedDate: r.ProcessedDate,
		ProcessedBy:   r.ProcessedBy,
		DocumentName:  r.DocumentName,
		DocumentMime:  r.DocumentMime,
	}
}

// ToListFloatRequestsResponse converts a page of domain float requests to DTOs.
func ToListFloatRequestsResponse(requests []domain.FloatRequest, nextToken *string) ListFloatRequestsResponse {
	res := make([]FloatRequestResponse, len(requests))
	for i, r := range requests {
		res[i] = ToFloatRequestResponse(&r)
	}
	return ListFloatRequestsResponse{Requests: res, NextToken: nextToken}
}
