package yacache

import "errors"

var (
	ErrStoreClosed = errors.New("[MEMORY] store is closed")

	ErrFailedToSet          = errors.New("[CACHE] failed to set value")
	ErrFailedToGetValue     = errors.New("[CACHE] failed to get value")
	ErrFailedToDelValue     = errors.New("[CACHE] failed to delete value")
	ErrFailedPing           = errors.New("[CACHE] failed to ping")
	ErrFailedToCloseBackend = errors.New("[CACHE] failed to close backend")
)
