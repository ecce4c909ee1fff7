package errors

import "errors"

var (
	ErrTransferFailed  = errors.New("transfer failed")
	ErrRouteNotFound   = errors.New("route not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrShuttingDown    = errors.New("service is shutting down")
)
