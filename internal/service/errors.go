package service

import "errors"

var (
	ErrOffline          = errors.New("sync is offline")
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrPayloadRequired      = errors.New("upload requires a payload")
	ErrInvalidPayload       = errors.New("payload is not valid JSON")
	ErrEmptyModule          = errors.New("module name is empty")
	ErrUnknownOperationKind = errors.New("unknown operation kind")

	ErrConflictNotFound = errors.New("conflict not found")
	ErrConflictResolved = errors.New("conflict already resolved")

	ErrOperationNotFound  = errors.New("operation not found")
	ErrOperationNotFailed = errors.New("operation is not failed")

	ErrNotLoaded = errors.New("orchestrator state was not loaded")
	ErrShutdown  = errors.New("orchestrator is shut down")
)
