package dto

import "time"

// LoginRequest defines the credentials payload for login.
type LoginRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the account it belongs to.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}
