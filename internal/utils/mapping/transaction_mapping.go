package mapping

import (
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		TransactionType:      string(d.TransactionType),
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		SubAmount:            d.SubAmount,
		FeesAmount:           d.FeesAmount,
		TotalAmount:          d.TotalAmount,
		Status:               models.TransactionStatus(d.Status),
		Reference:            d.Reference,
		Notes:                d.Notes,
		ReversalOf:           d.ReversalOf,
		InitiatedAt:          d.InitiatedAt,
		CompletedAt:          d.CompletedAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		TransactionType:      domain.TransactionType(m.TransactionType),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		SubAmount:            m.SubAmount,
		FeesAmount:           m.FeesAmount,
		TotalAmount:          m.TotalAmount,
		Status:               domain.TransactionStatus(m.Status),
		Reference:            m.Reference,
		Notes:                m.Notes,
		ReversalOf:           m.ReversalOf,
		InitiatedAt:          m.InitiatedAt,
		CompletedAt:          m.CompletedAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
