package domain_test

import (
	"testing"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		name     string
		from     domain.TransactionStatus
		to       domain.TransactionStatus
		expected bool
	}{
		{"pending to completed", domain.Pending, domain.Completed, true},
		{"pending to failed", domain.Pending, domain.Failed, true},
		{"pending to reverted", domain.Pending, domain.Reverted, false},
		{"completed to reverted", domain.Completed, domain.Reverted, true},
		{"completed to failed", domain.Completed, domain.Failed, false},
		{"completed to pending", domain.Completed, domain.Pending, false},
		{"failed is terminal", domain.Failed, domain.Completed, false},
		{"reverted is terminal", domain.Reverted, domain.Completed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			txn := domain.Transaction{Status: tc.from}
			assert.Equal(t, tc.expected, txn.CanTransitionTo(tc.to))
		})
	}
}

func TestTransaction_IsTerminal(t *testing.T) {
	testCases := []struct {
		status   domain.TransactionStatus
		expected bool
	}{
		{domain.Pending, false},
		{domain.Completed, true},
		{domain.Failed, true},
		{domain.Reverted, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			txn := domain.Transaction{Status: tc.status}
			assert.Equal(t, tc.expected, txn.IsTerminal())
		})
	}
}

func TestTransaction_IsSystemSourced(t *testing.T) {
	source := "alice"
	withSource := domain.Transaction{SourceAccountID: &source}
	assert.False(t, withSource.IsSystemSourced())

	minted := domain.Transaction{SourceAccountID: nil}
	assert.True(t, minted.IsSystemSourced())
}

func TestNewBalanceChange(t *testing.T) {
	delta := decimal.RequireFromString("-12.50")
	change := domain.NewBalanceChange("alice", delta)

	assert.Equal(t, "alice", change.AccountID)
	assert.True(t, change.Available.Equal(delta))
	assert.True(t, change.Current.Equal(delta))
}

func TestAccount_CanTransact(t *testing.T) {
	testCases := []struct {
		status   domain.AccountStatus
		expected bool
	}{
		{domain.Active, true},
		{domain.Unverified, false},
		{domain.Suspended, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			acc := domain.Account{Status: tc.status}
			assert.Equal(t, tc.expected, acc.CanTransact())
		})
	}
}
