package util

import (
	"log"
	"strings"
	"time"
)

const (
	maxLockRetries = 3
	baseLockDelay  = 100 * time.Millisecond
)

// IsLockError reports whether err is SQLite lock contention
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// RetryOnLock retries the given function if it fails with a database lock error
func RetryOnLock(operation func() error) error {
	_, err := RetryOnLockWithResult(func() (struct{}, error) {
		return struct{}{}, operation()
	})
	return err
}

// RetryOnLockWithResult retries operation with exponential backoff
// (100ms, 200ms, 400ms) while it keeps failing with a lock error.
func RetryOnLockWithResult[T any](operation func() (T, error)) (T, error) {
	var result T
	var err error

	for i := 0; i < maxLockRetries; i++ {
		result, err = operation()
		if !IsLockError(err) {
			return result, err
		}

		delay := baseLockDelay * time.Duration(1<<i)
		log.Printf("Database locked, retrying in %v...", delay)
		time.Sleep(delay)
	}

	return result, err
}
