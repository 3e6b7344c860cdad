package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount       = errors.New("amount is not a valid signed decimal")
	ErrAddFailed           = errors.New("backend rejected the transaction")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Auth errors
	ErrEmptyCredentials   = errors.New("username and password must not be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
