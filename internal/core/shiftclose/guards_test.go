package shiftclose

import (
	"reflect"
	"testing"
)

func TestCanFinishAllComplete(t *testing.T) {
	result := CanFinish(FinishContext{
		Sections: map[string]bool{"crew": true, "expenses": true, "materials": true},
	})
	if !result.Allowed {
		t.Errorf("expected finish to be allowed, got reason %q", result.Reason)
	}
	if result.Error() != nil {
		t.Errorf("Error() = %v, want nil", result.Error())
	}
}

func TestCanFinishMissingSections(t *testing.T) {
	result := CanFinish(FinishContext{
		Sections: map[string]bool{"crew": false, "expenses": true, "materials": false},
	})
	if result.Allowed {
		t.Fatal("expected finish to be denied")
	}
	want := []string{"crew", "materials"}
	if !reflect.DeepEqual(result.Missing, want) {
		t.Errorf("Missing = %v, want %v", result.Missing, want)
	}
	if result.Error() == nil {
		t.Error("Error() = nil, want error")
	}
}

func TestCanFinishAlreadyClosed(t *testing.T) {
	result := CanFinish(FinishContext{
		Sections: map[string]bool{"crew": true, "expenses": true, "materials": true},
		Closed:   true,
	})
	if result.Allowed {
		t.Error("expected finish to be denied for a closed shift")
	}
}
