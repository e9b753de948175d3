package compat

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/Pp3ng/blitz-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCompatBuilder(t *testing.T) (*Builder, *log.Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()

	appLogger, err := log.NewBuilder().
		Directory(tmpDir).
		LevelString("debug").
		EnableConsole(false).
		EnableFile(true).
		Build()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, tmpDir
}

func readLogLines(t *testing.T, dir string, expectedLines int) []string {
	t.Helper()
	var lastErr error

	for i := 0; i < 50; i++ {
		files, err := os.ReadDir(dir)
		if err == nil && len(files) > 0 {
			f, openErr := os.Open(filepath.Join(dir, files[0].Name()))
			if openErr == nil {
				scanner := bufio.NewScanner(f)
				var lines []string
				for scanner.Scan() {
					lines = append(lines, scanner.Text())
				}
				f.Close()
				if len(lines) >= expectedLines {
					return lines
				}
			}
		} else {
			lastErr = err
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("failed to read %d log lines from %s: %v", expectedLines, dir, lastErr)
	return nil
}

func TestCompatBuilderWithExistingLogger(t *testing.T) {
	builder, logger, _ := createTestCompatBuilder(t)
	defer logger.Shutdown()

	gnetAdapter, err := builder.BuildGnet()
	require.NoError(t, err)
	assert.NotNil(t, gnetAdapter)
	assert.Equal(t, logger, gnetAdapter.logger)
}

func TestCompatBuilderWithConfig(t *testing.T) {
	cfg := log.DefaultConfig()
	cfg.ConsoleOutput = false
	cfg.LogDir = t.TempDir()

	builder := NewBuilder().WithConfig(cfg)
	fasthttpAdapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)
	assert.NotNil(t, fasthttpAdapter)

	logger, err := builder.GetLogger()
	require.NoError(t, err)
	defer logger.Shutdown()
}

func TestGnetAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	var fatalCalled bool
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	require.NoError(t, logger.Flush(time.Second))

	lines := readLogLines(t, tmpDir, 5)
	require.Len(t, lines, 5)

	expected := []struct{ level, fragment string }{
		{"[DEBUG]", "gnet debug id=1"},
		{"[INFO]", "gnet info id=2"},
		{"[WARN]", "gnet warn id=3"},
		{"[ERROR]", "gnet error id=4"},
		{"[ERROR]", "fatal: gnet fatal id=5"},
	}
	for i, want := range expected {
		assert.Contains(t, lines[i], want.level)
		assert.Contains(t, lines[i], want.fragment)
	}
	assert.True(t, fatalCalled)
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	messages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range messages {
		adapter.Printf("%s", msg)
	}

	require.NoError(t, logger.Flush(time.Second))

	lines := readLogLines(t, tmpDir, 4)
	expectedLevels := []string{"[INFO]", "[DEBUG]", "[WARN]", "[ERROR]"}

	require.Len(t, lines, 4)
	for i, line := range lines {
		assert.Contains(t, line, expectedLevels[i])
		assert.Contains(t, line, messages[i])
	}
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, log.LevelError, DetectLogLevel("connection failed"))
	assert.Equal(t, log.LevelWarning, DetectLogLevel("deprecated option used"))
	assert.Equal(t, log.LevelDebug, DetectLogLevel("trace id=1"))
	assert.Equal(t, log.LevelInfo, DetectLogLevel("server started"))
}
