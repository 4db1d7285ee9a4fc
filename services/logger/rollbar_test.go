package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/registro/core"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	l := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST", Build: "test", Debug: debug})
	l.Enable(false)
	return l, buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newTestLogger(true)
	err := errors.New("boom")

	got := l.prepare("saving", []interface{}{
		err,
		map[string]interface{}{"key": "a", "engine": "file"},
		map[string]interface{}{"key": "b"},
	})
	assert.Equal(t, []interface{}{
		"saving",
		err,
		map[string]interface{}{"key": "b", "engine": "file"},
	}, got)

	assert.Equal(t, []interface{}{"plain"}, l.prepare("plain", nil))
}

func TestRollbarLogger_output(t *testing.T) {
	l, buf := newTestLogger(false)
	l.Debug("hidden")
	l.Warn("weights", map[string]interface{}{"AD": 20})
	l.Error("could not save", errors.New("disk full"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN: weights\nmap[AD:20]\n")
	assert.Contains(t, out, "ERROR: could not save\ndisk full\n")

	l, buf = newTestLogger(true)
	l.Debug("shown")
	assert.Equal(t, "DEBUG: shown\n", buf.String())
}
