package mapping

import (
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		AccountType:      models.AccountType(d.AccountType),
		DisplayName:      d.DisplayName,
		AvailableBalance: d.AvailableBalance,
		CurrentBalance:   d.CurrentBalance,
		Status:           string(d.Status),
		PasswordHash:     d.PasswordHash,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		AccountType:      domain.AccountType(m.AccountType),
		DisplayName:      m.DisplayName,
		AvailableBalance: m.AvailableBalance,
		CurrentBalance:   m.CurrentBalance,
		Status:           domain.AccountStatus(m.Status),
		PasswordHash:     m.PasswordHash,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
