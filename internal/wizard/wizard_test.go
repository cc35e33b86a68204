package wizard

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

var errBadInput = errors.New("digits only")

func numericStep(key string) Step {
	return Step{
		Key: key,
		Prompt: func(r *Run) Screen {
			return Screen{Text: "enter " + key}
		},
		Handle: func(ctx context.Context, r *Run, input string) (bool, error) {
			n, err := strconv.Atoi(input)
			if err != nil {
				return false, errBadInput
			}
			r.SetField(key, n)
			return true, nil
		},
	}
}

func testSpec(persistErr *error, saved *map[string]any) *Spec {
	return &Spec{
		Name:  "test",
		Steps: []Step{numericStep("first"), numericStep("second")},
		Confirm: func(r *Run) Screen {
			return Screen{Text: "confirm?"}
		},
		Persist: func(ctx context.Context, r *Run) error {
			if persistErr != nil && *persistErr != nil {
				return *persistErr
			}
			if saved != nil {
				out := make(map[string]any, len(r.Fields))
				for k, v := range r.Fields {
					out[k] = v
				}
				*saved = out
			}
			return nil
		},
	}
}

func TestHappyPath(t *testing.T) {
	ctx := context.Background()
	var saved map[string]any
	run := NewRun(testSpec(nil, &saved), 1, 10)

	if !run.OnIntro() {
		t.Fatal("new run should be on intro")
	}
	if err := run.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if run.StepIndex() != 0 {
		t.Fatalf("StepIndex() = %d, want 0", run.StepIndex())
	}

	for _, input := range []string{"5", "7"} {
		if _, err := run.Submit(ctx, input); err != nil {
			t.Fatalf("Submit(%q): %v", input, err)
		}
	}
	if !run.OnConfirm() {
		t.Fatalf("expected confirm state, got %s", run.State())
	}

	if err := run.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	if !run.Done() {
		t.Error("run should be done after commit")
	}
	if saved["first"] != 5 || saved["second"] != 7 {
		t.Errorf("persisted fields = %v", saved)
	}
}

func TestInvalidInputDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	run := NewRun(testSpec(nil, nil), 1, 10)
	_ = run.Begin(ctx)
	_, _ = run.Submit(ctx, "5")

	before := run.State()
	advanced, err := run.Submit(ctx, "not a number")
	if !errors.Is(err, errBadInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if advanced {
		t.Error("invalid input must not advance")
	}
	if run.State() != before {
		t.Errorf("state changed on invalid input: %s -> %s", before, run.State())
	}
	if run.IntField("first") != 5 {
		t.Error("collected fields must survive invalid input")
	}
}

func TestBackNavigation(t *testing.T) {
	ctx := context.Background()
	run := NewRun(testSpec(nil, nil), 1, 10)
	_ = run.Begin(ctx)

	atFirst, err := run.Back(ctx)
	if err != nil || !atFirst {
		t.Errorf("Back() at first step = %v, %v; want atFirst", atFirst, err)
	}

	_, _ = run.Submit(ctx, "5")
	atFirst, err = run.Back(ctx)
	if err != nil || atFirst {
		t.Fatalf("Back() from second step = %v, %v", atFirst, err)
	}
	if run.StepIndex() != 0 {
		t.Errorf("StepIndex() after back = %d, want 0", run.StepIndex())
	}
}

func TestResetClearsTransientStateOnNavigation(t *testing.T) {
	ctx := context.Background()
	spec := testSpec(nil, nil)
	spec.Reset = func(r *Run) {
		r.SetField("scratch", 0)
	}
	run := NewRun(spec, 1, 10)
	_ = run.Begin(ctx)
	_, _ = run.Submit(ctx, "5")
	run.SetField("scratch", 3)

	if _, err := run.Back(ctx); err != nil {
		t.Fatal(err)
	}
	if run.IntField("scratch") != 0 {
		t.Error("back should reset transient state")
	}

	_, _ = run.Submit(ctx, "5")
	run.SetField("scratch", 3)
	_, _ = run.Submit(ctx, "7")
	if err := run.Edit(ctx); err != nil {
		t.Fatal(err)
	}
	if run.IntField("scratch") != 0 {
		t.Error("edit should reset transient state")
	}
}

func TestEditReturnsToFirstStep(t *testing.T) {
	ctx := context.Background()
	run := NewRun(testSpec(nil, nil), 1, 10)
	_ = run.Begin(ctx)
	_, _ = run.Submit(ctx, "5")
	_, _ = run.Submit(ctx, "7")

	if err := run.Edit(ctx); err != nil {
		t.Fatal(err)
	}
	if run.StepIndex() != 0 {
		t.Errorf("StepIndex() after edit = %d, want 0", run.StepIndex())
	}
	// Fields are retained and overwritten on re-entry.
	if run.IntField("second") != 7 {
		t.Error("fields should survive edit")
	}
}

func TestAbortDiscardsFields(t *testing.T) {
	ctx := context.Background()
	run := NewRun(testSpec(nil, nil), 1, 10)
	_ = run.Begin(ctx)
	_, _ = run.Submit(ctx, "5")

	run.Abort(ctx)
	if !run.Aborted() {
		t.Error("run should be aborted")
	}
	if len(run.Fields) != 0 {
		t.Errorf("fields should be discarded, got %v", run.Fields)
	}
}

func TestPersistFailureStaysOnConfirm(t *testing.T) {
	ctx := context.Background()
	persistErr := errors.New("store down")
	run := NewRun(testSpec(&persistErr, nil), 1, 10)
	_ = run.Begin(ctx)
	_, _ = run.Submit(ctx, "5")
	_, _ = run.Submit(ctx, "7")

	if err := run.Commit(ctx); err == nil {
		t.Fatal("expected commit to fail")
	}
	if !run.OnConfirm() {
		t.Errorf("run should stay on confirm after persist failure, got %s", run.State())
	}

	persistErr = nil
	if err := run.Commit(ctx); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
	if !run.Done() {
		t.Error("run should finish after successful retry")
	}
}
