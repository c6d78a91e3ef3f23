package mapping

import (
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/models"
)

// ToModelFloatRequest converts a domain FloatRequest to a model FloatRequest
func ToModelFloatRequest(d domain.FloatRequest) models.FloatRequest {
	return models.FloatRequest{
		RequestID:     d.RequestID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Status:        string(d.Status),
		RequestDate:   d.RequestDate,
		ProcessedDate: d.ProcessedDate,
		ProcessedBy:   d.ProcessedBy,
		Document:      d.Document,
		DocumentMime:  d.DocumentMime,
		DocumentName:  d.DocumentName,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFloatRequest converts a model FloatRequest to a domain FloatRequest
func ToDomainFloatRequest(m models.FloatRequest) domain.FloatRequest {
	return domain.FloatRequest{
		RequestID:     m.RequestID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Status:        domain.FloatRequestStatus(m.Status),
		RequestDate:   m.RequestDate,
		ProcessedDate: m.ProcessedDate,
		ProcessedBy:   m.ProcessedBy,
		Document:      m.Document,
		DocumentMime:  m.DocumentMime,
		DocumentName:  m.DocumentName,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFloatRequestSlice converts a slice of model FloatRequests to domain FloatRequests
func ToDomainFloatRequestSlice(ms []models.FloatRequest) []domain.FloatRequest {
	ds := make([]domain.FloatRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFloatRequest(m)
	}
	return ds
}
