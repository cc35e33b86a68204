package memory

import (
	"testing"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get(1); ok {
		t.Error("empty store should miss")
	}

	session := &secondary.ShiftSession{
		Date: "2026-08-31",
		Row:  12,
		Sections: map[secondary.Section]bool{
			secondary.SectionCrew: true,
		},
	}
	store.Put(1, session)

	got, ok := store.Get(1)
	if !ok || got.Row != 12 || !got.Sections[secondary.SectionCrew] {
		t.Errorf("Get() = %+v, %v", got, ok)
	}

	store.Delete(1)
	if _, ok := store.Get(1); ok {
		t.Error("deleted session should miss")
	}
}
