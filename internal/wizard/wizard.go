// Package wizard implements the generic linear step sequencer behind the
// crew, expenses, materials and registration dialogues. One engine,
// parameterized by a Spec, replaces the per-section sequencers so that
// back/home/skip semantics cannot drift between sections.
package wizard

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// States outside the per-step ones.
const (
	StateIntro   = "intro"
	StateConfirm = "confirm"
	StateDone    = "done"
	StateAborted = "aborted"
)

// Events driving the machine.
const (
	eventBegin   = "begin"
	eventAdvance = "advance"
	eventBack    = "back"
	eventEdit    = "edit"
	eventCommit  = "commit"
	eventAbort   = "abort"
)

// Screen is one rendered prompt: text plus the fixed keyboard layer for the
// step.
type Screen struct {
	Text     string
	Keyboard secondary.Keyboard
}

// Step is one field-prompt state of a dialogue.
type Step struct {
	Key string

	// Prompt renders the step's screen on entry.
	Prompt func(r *Run) Screen

	// Handle processes user input. advance=false with a nil error means
	// the input was a valid in-step interaction (a toggle, an added
	// photo) that does not move the dialogue; a non-nil error means
	// invalid input and carries the re-prompt hint. Collected fields are
	// only modified by Handle, never by the engine.
	Handle func(ctx context.Context, r *Run, input string) (advance bool, err error)
}

// Spec describes one dialogue: its ordered steps, the confirmation screen
// and the single atomic persist.
type Spec struct {
	Name    string
	Steps   []Step
	Confirm func(r *Run) Screen

	// Persist commits the collected fields in one write. On error the
	// run stays on the confirmation screen so nothing is lost.
	Persist func(ctx context.Context, r *Run) error

	// Reset clears transient in-step state when back or edit navigation
	// leaves the current step.
	Reset func(r *Run)
}

// Run is one live dialogue instance bound to a single user and shift row.
type Run struct {
	UserID int64
	Row    int64
	Fields map[string]any

	spec    *Spec
	machine *fsm.FSM
}

// NewRun creates a dialogue in the intro state.
func NewRun(spec *Spec, userID, row int64) *Run {
	events := fsm.Events{
		{Name: eventBegin, Src: []string{StateIntro}, Dst: stepState(spec, 0)},
		{Name: eventCommit, Src: []string{StateConfirm}, Dst: StateDone},
		{Name: eventEdit, Src: []string{StateConfirm}, Dst: stepState(spec, 0)},
	}
	for i := range spec.Steps {
		next := StateConfirm
		if i+1 < len(spec.Steps) {
			next = stepState(spec, i+1)
		}
		events = append(events, fsm.EventDesc{
			Name: eventAdvance,
			Src:  []string{stepState(spec, i)},
			Dst:  next,
		})
		if i > 0 {
			events = append(events, fsm.EventDesc{
				Name: eventBack,
				Src:  []string{stepState(spec, i)},
				Dst:  stepState(spec, i-1),
			})
		}
	}
	abortSrc := []string{StateIntro, StateConfirm}
	for i := range spec.Steps {
		abortSrc = append(abortSrc, stepState(spec, i))
	}
	events = append(events, fsm.EventDesc{Name: eventAbort, Src: abortSrc, Dst: StateAborted})

	return &Run{
		UserID:  userID,
		Row:     row,
		Fields:  make(map[string]any),
		spec:    spec,
		machine: fsm.NewFSM(StateIntro, events, fsm.Callbacks{}),
	}
}

func stepState(spec *Spec, i int) string {
	return "step_" + spec.Steps[i].Key
}

// Name returns the dialogue name from the spec.
func (r *Run) Name() string { return r.spec.Name }

// State returns the raw machine state.
func (r *Run) State() string { return r.machine.Current() }

// StepIndex returns the index of the current step, or -1 outside steps.
func (r *Run) StepIndex() int {
	current := r.machine.Current()
	for i := range r.spec.Steps {
		if stepState(r.spec, i) == current {
			return i
		}
	}
	return -1
}

// OnIntro reports whether the run has not begun yet.
func (r *Run) OnIntro() bool { return r.machine.Current() == StateIntro }

// OnConfirm reports whether the run is on the confirmation screen.
func (r *Run) OnConfirm() bool { return r.machine.Current() == StateConfirm }

// Done reports whether the run committed successfully.
func (r *Run) Done() bool { return r.machine.Current() == StateDone }

// Aborted reports whether the run was abandoned.
func (r *Run) Aborted() bool { return r.machine.Current() == StateAborted }

// Begin moves intro -> first step.
func (r *Run) Begin(ctx context.Context) error {
	return r.machine.Event(ctx, eventBegin)
}

// Screen renders the prompt for the current state.
func (r *Run) Screen() Screen {
	if r.OnConfirm() {
		return r.spec.Confirm(r)
	}
	if i := r.StepIndex(); i >= 0 {
		return r.spec.Steps[i].Prompt(r)
	}
	return Screen{}
}

// Submit feeds user input to the current step. It returns whether the
// dialogue advanced; a validation error leaves the step and all collected
// fields untouched.
func (r *Run) Submit(ctx context.Context, input string) (bool, error) {
	i := r.StepIndex()
	if i < 0 {
		return false, fmt.Errorf("no input expected in state %s", r.State())
	}
	advance, err := r.spec.Steps[i].Handle(ctx, r, input)
	if err != nil || !advance {
		return false, err
	}
	if err := r.machine.Event(ctx, eventAdvance); err != nil {
		return false, err
	}
	return true, nil
}

// Back moves one step backward. From the first step it reports
// atFirst=true and stays put; the caller exits to the parent menu.
func (r *Run) Back(ctx context.Context) (atFirst bool, err error) {
	if r.StepIndex() == 0 {
		return true, nil
	}
	if r.spec.Reset != nil {
		r.spec.Reset(r)
	}
	return false, r.machine.Event(ctx, eventBack)
}

// Edit returns from the confirmation screen to the first step. Collected
// fields are retained; re-entry overwrites them in step order.
func (r *Run) Edit(ctx context.Context) error {
	if r.spec.Reset != nil {
		r.spec.Reset(r)
	}
	return r.machine.Event(ctx, eventEdit)
}

// Commit runs the spec's persist and, on success, finishes the dialogue.
// On persist failure the run stays on the confirmation screen.
func (r *Run) Commit(ctx context.Context) error {
	if !r.OnConfirm() {
		return fmt.Errorf("commit outside confirmation (state %s)", r.State())
	}
	if err := r.spec.Persist(ctx, r); err != nil {
		return err
	}
	return r.machine.Event(ctx, eventCommit)
}

// Abort abandons the dialogue from any live state and discards collected
// fields. Nothing was persisted, so there is no remote rollback.
func (r *Run) Abort(ctx context.Context) {
	if r.Done() || r.Aborted() {
		return
	}
	_ = r.machine.Event(ctx, eventAbort)
	r.Fields = make(map[string]any)
}

// SetField stores a collected value.
func (r *Run) SetField(key string, value any) {
	r.Fields[key] = value
}

// IntField reads a collected integer, defaulting to zero.
func (r *Run) IntField(key string) int {
	if v, ok := r.Fields[key].(int); ok {
		return v
	}
	return 0
}

// StringField reads a collected string, defaulting to empty.
func (r *Run) StringField(key string) string {
	if v, ok := r.Fields[key].(string); ok {
		return v
	}
	return ""
}
