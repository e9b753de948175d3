package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerShutdown(t *testing.T) {
	t.Run("normal shutdown", func(t *testing.T) {
		logger, _ := createTestLogger(t)

		logger.Info("shutdown test")

		err := logger.Shutdown(2 * time.Second)
		assert.NoError(t, err)

		assert.True(t, logger.state.ShutdownCalled.Load())
		assert.False(t, logger.state.Initialized.Load())
	})

	t.Run("shutdown before any logging", func(t *testing.T) {
		logger, _ := createTestLogger(t)
		err := logger.Shutdown()
		assert.NoError(t, err)
	})

	t.Run("double shutdown", func(t *testing.T) {
		logger, _ := createTestLogger(t)

		err1 := logger.Shutdown()
		err2 := logger.Shutdown()

		assert.NoError(t, err1)
		assert.NoError(t, err2)
	})
}

func TestLoggerFlush(t *testing.T) {
	t.Run("successful flush", func(t *testing.T) {
		logger, tmpDir := createTestLogger(t)
		defer logger.Shutdown()

		logger.Info("flush test")

		err := logger.Flush(time.Second)
		assert.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(tmpDir, logger.GetConfig().FilePrefix+"."+logger.GetConfig().Extension))
		require.NoError(t, err)
		assert.Contains(t, string(content), "flush test")
	})

	t.Run("flush after shutdown", func(t *testing.T) {
		logger, _ := createTestLogger(t)
		logger.Shutdown()

		err := logger.Flush(time.Second)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not initialized")
	})
}

func TestLoggerStateCounters(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	for i := 0; i < 20; i++ {
		logger.Info("counted %d", i)
	}
	require.NoError(t, logger.Flush(time.Second))

	assert.Equal(t, uint64(20), logger.state.TotalLogsProcessed.Load())
	assert.Equal(t, uint64(0), logger.state.DroppedLogs.Load())
}
