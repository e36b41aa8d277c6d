package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("points must be a positive multiple of 1000")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPendingWithdrawal   = errors.New("withdrawal already in flight")
	ErrCooldownActive      = errors.New("withdrawal cooldown active")
	ErrAlreadyProcessed    = errors.New("withdrawal already processed")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAlreadyReviewed     = errors.New("attempt already reviewed")
	ErrConsistency         = errors.New("ledger out of sync with completed transfer")
	ErrUnauthorized        = errors.New("unauthorized")
)
