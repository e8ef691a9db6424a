package inflight

import "testing"

func TestGuardRejectsSecondAcquireUntilRelease(t *testing.T) {
	g := New()

	release, ok := g.TryAcquire("insight:7")
	if !ok {
		t.Fatalf("first acquire should succeed")
	}
	if _, ok := g.TryAcquire("insight:7"); ok {
		t.Fatalf("second acquire should be rejected while in flight")
	}
	if _, ok := g.TryAcquire("insight:8"); !ok {
		t.Fatalf("other keys should be independent")
	}

	release()
	release()

	if g.Busy("insight:7") {
		t.Fatalf("key should be free after release")
	}
	if _, ok := g.TryAcquire("insight:7"); !ok {
		t.Fatalf("acquire after release should succeed")
	}
}
