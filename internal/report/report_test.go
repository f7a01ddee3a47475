package report

import (
	"bytes"
	"testing"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
)

func TestWrite(t *testing.T) {
	cat := catalog.MustDefault()
	starter, _ := cat.StarterPet()
	snap := csquest.NewSnapshot("Zoë", "wizard", starter)
	snap.Achievements = []string{"first-steps", "retired-achievement"}
	snap.CompletedQuests = []string{"quest-1"}

	var buf bytes.Buffer
	if err := Write(&buf, Sheet{Snapshot: snap, Attack: 5, Defense: 3}, cat); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b := buf.Bytes()
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
	if len(b) < 500 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
}

func TestWriteEmptySave(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Sheet{}, catalog.MustDefault()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
