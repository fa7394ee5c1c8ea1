package observ

import (
	"strings"
	"testing"
)

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("load")
	tm.End(i, "16 bytes")
	i = tm.Begin("emit")
	tm.End(i, "")

	s := tm.Summary()
	for _, frag := range []string{"timings:", "load", "16 bytes", "emit", "total"} {
		if !strings.Contains(s, frag) {
			t.Errorf("summary missing %q:\n%s", frag, s)
		}
	}
}

func TestTimerEmpty(t *testing.T) {
	if s := NewTimer().Summary(); !strings.Contains(s, "timings:") {
		t.Errorf("empty summary = %q", s)
	}
}
