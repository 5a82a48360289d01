package lock

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/logger"
)

func TestRedisLocker_ReleaseFailureIsLogged(t *testing.T) {
	hook := logtest.NewLocal(logger.Log)
	defer hook.Reset()

	// Порт 1 закрыт: скрипт снятия блокировки не выполнится.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	locker := NewRedisLocker(client, time.Second)
	locker.release(locker.prefix+"payment-order:7", "token")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "projexhub:lock:payment-order:7", entry.Data["key"])
	assert.NotNil(t, entry.Data[logrus.ErrorKey])
}
