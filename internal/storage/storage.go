package storage

import "errors"

var ErrNotFound = errors.New("not found")

// Backends for the greeting message.
const (
	KindSQL    = "sql"
	KindRedis  = "redis"
	KindMemory = "memory"
)
