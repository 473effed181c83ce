package share

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestOpenFreshStore(t *testing.T) {
	s, err := OpenVisibilityStore(tempStatePath(t))
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	state := s.Snapshot()
	if state.ActiveSession15 != "" || state.IsChatView || len(state.Muted15) != 0 {
		t.Errorf("fresh store not empty: %+v", state)
	}
}

func TestStateRoundTripsThroughFile(t *testing.T) {
	path := tempStatePath(t)
	s, err := OpenVisibilityStore(path)
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	s.SetActiveSession("a0B00000000000AXXX", true)
	s.SetMuted("a0B00000000000BXXX", true)

	reopened, err := OpenVisibilityStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	state := reopened.Snapshot()
	if state.ActiveSession15 != "a0B00000000000A" {
		t.Errorf("ActiveSession15 = %q, want canonical 15-char id", state.ActiveSession15)
	}
	if !state.IsChatView {
		t.Error("IsChatView lost across reopen")
	}
	if !state.IsMuted("a0B00000000000B") {
		t.Error("muted session lost across reopen")
	}
}

func TestCorruptFileResetsInsteadOfFailing(t *testing.T) {
	path := tempStatePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenVisibilityStore(path)
	if err != nil {
		t.Fatalf("corrupt file should not fail open: %v", err)
	}
	state := s.Snapshot()
	if state.ActiveSession15 != "" || len(state.Muted15) != 0 {
		t.Errorf("corrupt file should reset to empty state, got %+v", state)
	}
}

func TestReloadSeesExternalWriter(t *testing.T) {
	path := tempStatePath(t)
	reader, err := OpenVisibilityStore(path)
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	writer, err := OpenVisibilityStore(path)
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	writer.SetActiveSession("a0B00000000000AXXX", true)

	if got := reader.Snapshot().ActiveSession15; got != "" {
		t.Fatalf("snapshot should not see external write, got %q", got)
	}
	state := reader.Reload()
	if state.ActiveSession15 != "a0B00000000000A" || !state.IsChatView {
		t.Errorf("Reload missed external write: %+v", state)
	}
}

func TestReplaceMutedSwapsWholeSet(t *testing.T) {
	s, err := OpenVisibilityStore(tempStatePath(t))
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	s.SetMuted("a0B00000000000AXXX", true)
	s.ReplaceMuted([]string{"a0B00000000000BXXX", "a0B00000000000CXXX", ""})

	state := s.Snapshot()
	if state.IsMuted("a0B00000000000A") {
		t.Error("old muted entry survived ReplaceMuted")
	}
	if !state.IsMuted("a0B00000000000B") || !state.IsMuted("a0B00000000000C") {
		t.Error("new muted entries missing after ReplaceMuted")
	}
	if len(state.Muted15) != 2 {
		t.Errorf("empty ids should be dropped, set = %v", state.Muted15)
	}
}

func TestUnmuteRemovesEntry(t *testing.T) {
	s, err := OpenVisibilityStore(tempStatePath(t))
	if err != nil {
		t.Fatalf("OpenVisibilityStore: %v", err)
	}
	s.SetMuted("a0B00000000000AXXX", true)
	s.SetMuted("a0B00000000000A", false)
	if s.Snapshot().IsMuted("a0B00000000000A") {
		t.Error("session still muted after unmute")
	}
}
