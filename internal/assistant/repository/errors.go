package repository

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrFailedToInsert = errors.New("failed to insert record")
	ErrFailedToQuery  = errors.New("failed to query records")
	ErrFailedToUpdate = errors.New("failed to update record")
	ErrFailedToDelete = errors.New("failed to delete record")
	ErrFailedToLock   = errors.New("failed to lock workspace")
	ErrLedger         = errors.New("turn ledger unavailable")
)
