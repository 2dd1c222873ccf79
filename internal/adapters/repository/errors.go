package repository

import "errors"

// Sentinel kinds for ledger store errors.
var (
	ErrClosed = errors.New("store closed")
	ErrOpen   = errors.New("store open failed")
	ErrQuery  = errors.New("store query failed")
	ErrWrite  = errors.New("store write failed")
)
