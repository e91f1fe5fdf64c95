package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		expectDbg bool
		expectInf bool
	}{
		{name: "debug shows everything", level: "debug", expectDbg: true, expectInf: true},
		{name: "empty defaults to info", level: "", expectDbg: false, expectInf: true},
		{name: "warn hides info", level: "warn", expectDbg: false, expectInf: false},
		{name: "level is case insensitive", level: "DEBUG", expectDbg: true, expectInf: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Options{Level: tt.level, Output: &buf})
			require.NoError(t, err)

			l.Debug("debug %s", "line")
			l.Info("info %d", 42)

			assert.Equal(t, tt.expectDbg, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Equal(t, tt.expectInf, bytes.Contains(buf.Bytes(), []byte("info 42")))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_NameAndLevelInOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, Name: "dashboard"})
	require.NoError(t, err)

	l.Warn("warning message")
	l.Error("error message")

	out := buf.String()
	assert.Contains(t, out, "dashboard")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "warning message")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "error message")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actop.log")

	l, closeFn, err := NewFile(path, Options{Level: "info"})
	require.NoError(t, err)

	l.Info("written to %s", "file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewEnvLogger_DebugToggle(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	l := NewEnvLogger("test")
	zl, ok := l.(*zapLogger)
	require.True(t, ok)
	assert.True(t, zl.base.Core().Enabled(zapcore.DebugLevel), "debug level should be enabled")

	t.Setenv(DebugEnv, "")
	l = NewEnvLogger("test")
	zl, ok = l.(*zapLogger)
	require.True(t, ok)
	assert.False(t, zl.base.Core().Enabled(zapcore.DebugLevel), "debug level should be disabled")
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	// Must not panic.
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
	Sync(l)
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)

	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "debug msg", l.Messages[0].Message)
	assert.Equal(t, "info", l.Messages[1].Level)
	assert.Equal(t, "warn", l.Messages[2].Level)
	assert.Equal(t, "error", l.Messages[3].Level)
	assert.Equal(t, "error msg", l.Messages[3].Message)
}

func TestBufferLogger_HasLevelAndContains(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("warn"))

	l.Warn("could not fetch %s", "jvm.memory.max")
	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("warn", "jvm.memory.max"))
	assert.False(t, l.Contains("error", "jvm.memory.max"))
}

func TestBufferLogger_ConcurrentWrites(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Info("msg %d", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Snapshot(), 50)
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages, 2)

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}
