package collector

import "errors"

// Common error types used across the collector
var (
	ErrRootEmpty      = errors.New("root path cannot be empty")
	ErrRootNotExist   = errors.New("root path does not exist")
	ErrRootUnreadable = errors.New("root path cannot be read")
	ErrNotRegular     = errors.New("path is not a regular file or directory")
)
