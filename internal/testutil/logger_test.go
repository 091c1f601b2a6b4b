package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingTB struct {
	testing.TB
	lines []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Log(args ...any) {
	for _, a := range args {
		r.lines = append(r.lines, a.(string))
	}
}

func TestNewTestLogger(t *testing.T) {
	tb := &recordingTB{TB: t}
	logger := NewTestLogger(tb)
	logger.Debug("define", "name", "sq")
	if assert.Len(t, tb.lines, 1) {
		assert.Equal(t, "level=DEBUG msg=define name=sq", tb.lines[0])
	}
}
