package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryOnLock(t *testing.T) {
	t.Run("retries lock errors until success", func(t *testing.T) {
		calls := 0
		err := RetryOnLock(func() error {
			calls++
			if calls < 2 {
				return errors.New("database is locked")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors return immediately", func(t *testing.T) {
		calls := 0
		err := RetryOnLock(func() error {
			calls++
			return errors.New("no such table")
		})
		assert.EqualError(t, err, "no such table")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		n, err := RetryOnLockWithResult(func() (int, error) {
			calls++
			return 0, errors.New("database table is locked")
		})
		assert.True(t, IsLockError(err))
		assert.Equal(t, 0, n)
		assert.Equal(t, maxLockRetries, calls)
	})
}
