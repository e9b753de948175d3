package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Equal(t, "log: test error: details", err.Error())

	err = fmtErrorf("log: already prefixed")
	assert.Equal(t, "log: already prefixed", err.Error())
}

func TestGoroutineIDStableWithinGoroutine(t *testing.T) {
	id1 := goroutineID()
	id2 := goroutineID()
	assert.Equal(t, id1, id2)
	assert.NotZero(t, id1)
}

func TestGoroutineIDDiffersAcrossGoroutines(t *testing.T) {
	id1 := goroutineID()
	done := make(chan uint64)
	go func() { done <- goroutineID() }()
	id2 := <-done
	assert.NotEqual(t, id1, id2)
}

func TestCallSite(t *testing.T) {
	file, line := callSite(1, false)
	assert.Contains(t, file, "utility_test.go")
	assert.NotZero(t, line)
}
