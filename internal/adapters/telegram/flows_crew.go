package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

// Crew dialogue field keys. The add-person sub-flow runs inside a step:
// addStage tracks which name piece comes next while the step itself stays
// put.
const (
	fieldDriver        = "driver"
	fieldWorkers       = "workers"
	fieldDriverOptions = "driver_options"
	fieldWorkerOptions = "worker_options"
	fieldAddStage      = "add_stage"
	fieldAddKind       = "add_kind"
	fieldAddLast       = "add_last"
	fieldAddFirst      = "add_first"
)

const (
	addStageLast = iota + 1
	addStageFirst
	addStagePatronymic
)

func (b *Bot) crewSpec() *wizard.Spec {
	return &wizard.Spec{
		Name: "crew",
		Steps: []wizard.Step{
			{Key: "driver", Prompt: driverPrompt, Handle: b.handleDriverInput},
			{Key: "workers", Prompt: workersPrompt, Handle: b.handleWorkersInput},
		},
		Confirm: crewConfirm,
		Persist: b.persistCrew,
		Reset:   cancelAddPerson,
	}
}

// hydrateCrewOptions refreshes the selectable directory lists before the
// screen renders, so newly added people show up immediately.
func (b *Bot) hydrateCrewOptions(ctx context.Context, r *wizard.Run) error {
	drivers, err := b.svc.Crew.ActiveDrivers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list drivers: %w", err)
	}
	workers, err := b.svc.Crew.ActiveWorkers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workers: %w", err)
	}
	r.Fields[fieldDriverOptions] = drivers
	r.Fields[fieldWorkerOptions] = workers
	return nil
}

func addPersonPrompt(r *wizard.Run, who string) (wizard.Screen, bool) {
	switch r.IntField(fieldAddStage) {
	case addStageLast:
		return wizard.Screen{Text: "Enter the " + who + "'s last name:", Keyboard: navKeyboard()}, true
	case addStageFirst:
		return wizard.Screen{Text: "Enter the " + who + "'s first name:", Keyboard: navKeyboard()}, true
	case addStagePatronymic:
		return wizard.Screen{Text: "Enter the " + who + "'s patronymic, or skip:", Keyboard: skipKeyboard()}, true
	}
	return wizard.Screen{}, false
}

func driverPrompt(r *wizard.Run) wizard.Screen {
	if screen, ok := addPersonPrompt(r, "driver"); ok {
		return screen
	}
	var sb strings.Builder
	sb.WriteString("<b>👥 Crew</b>\n\nPick a driver by number:\n")
	for _, m := range membersField(r, fieldDriverOptions) {
		fmt.Fprintf(&sb, "%d. %s\n", m.ID, m.Name)
	}
	return wizard.Screen{
		Text:     sb.String(),
		Keyboard: navKeyboard([]string{btnAddDriver}),
	}
}

func workersPrompt(r *wizard.Run) wizard.Screen {
	if screen, ok := addPersonPrompt(r, "worker"); ok {
		return screen
	}
	selected := stringsField(r, fieldWorkers)
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	var sb strings.Builder
	sb.WriteString("Toggle workers by number, then confirm:\n")
	for _, m := range membersField(r, fieldWorkerOptions) {
		mark := "▫️"
		if chosen[m.Name] {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %d. %s\n", mark, m.ID, m.Name)
	}
	fmt.Fprintf(&sb, "\nSelected: %d", len(selected))
	return wizard.Screen{
		Text:     sb.String(),
		Keyboard: navKeyboard([]string{btnAddWorker, btnClearWorkers}, []string{btnConfirm}),
	}
}

// handleAddPerson runs one turn of the in-step add-person sub-flow.
// It reports handled=false when the sub-flow is not active.
func (b *Bot) handleAddPerson(ctx context.Context, r *wizard.Run, input string) (handled bool, err error) {
	stage := r.IntField(fieldAddStage)
	if stage == 0 {
		return false, nil
	}

	switch stage {
	case addStageLast:
		r.SetField(fieldAddLast, input)
		r.SetField(fieldAddStage, addStageFirst)
		return true, nil
	case addStageFirst:
		r.SetField(fieldAddFirst, input)
		r.SetField(fieldAddStage, addStagePatronymic)
		return true, nil
	}

	patronymic := input
	if pressed(input, btnSkip) {
		patronymic = ""
	}
	req := primary.AddPersonRequest{
		LastName:   r.StringField(fieldAddLast),
		FirstName:  r.StringField(fieldAddFirst),
		Patronymic: patronymic,
	}
	var name string
	if r.StringField(fieldAddKind) == string(secondary.KindDriver) {
		name, err = b.svc.Crew.AddDriver(ctx, req)
	} else {
		name, err = b.svc.Crew.AddWorker(ctx, req)
	}
	if err != nil {
		// Restart the sub-flow so the user can fix the pieces.
		r.SetField(fieldAddStage, addStageLast)
		return true, err
	}

	kind := r.StringField(fieldAddKind)
	cancelAddPerson(r)
	if kind == string(secondary.KindDriver) {
		r.SetField(fieldDriver, name)
	} else {
		r.SetField(fieldWorkers, append(stringsField(r, fieldWorkers), name))
	}
	return true, nil
}

func startAddPerson(r *wizard.Run, kind secondary.EntryKind) {
	r.SetField(fieldAddStage, addStageLast)
	r.SetField(fieldAddKind, string(kind))
}

// cancelAddPerson drops a half-collected person so the step renders its
// own prompt again.
func cancelAddPerson(r *wizard.Run) {
	r.SetField(fieldAddStage, 0)
	r.SetField(fieldAddKind, "")
	r.SetField(fieldAddLast, "")
	r.SetField(fieldAddFirst, "")
}

func (b *Bot) handleDriverInput(ctx context.Context, r *wizard.Run, input string) (bool, error) {
	if handled, err := b.handleAddPerson(ctx, r, input); handled {
		if err != nil {
			return false, err
		}
		// A freshly added driver completes the step.
		return r.StringField(fieldDriver) != "", nil
	}
	if pressed(input, btnAddDriver) {
		startAddPerson(r, secondary.KindDriver)
		return false, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return false, hintf("pick a driver number from the list")
	}
	for _, m := range membersField(r, fieldDriverOptions) {
		if m.ID == id {
			r.SetField(fieldDriver, m.Name)
			return true, nil
		}
	}
	return false, hintf("there is no driver with number %d", id)
}

func (b *Bot) handleWorkersInput(ctx context.Context, r *wizard.Run, input string) (bool, error) {
	if handled, err := b.handleAddPerson(ctx, r, input); handled {
		return false, err
	}

	switch {
	case pressed(input, btnAddWorker):
		startAddPerson(r, secondary.KindWorker)
		return false, nil
	case pressed(input, btnClearWorkers):
		r.SetField(fieldWorkers, []string(nil))
		return false, nil
	case pressed(input, btnConfirm):
		if len(stringsField(r, fieldWorkers)) == 0 {
			return false, hintf("select at least one worker")
		}
		return true, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return false, hintf("toggle a worker by number, or confirm the selection")
	}
	for _, m := range membersField(r, fieldWorkerOptions) {
		if m.ID != id {
			continue
		}
		r.SetField(fieldWorkers, toggleName(stringsField(r, fieldWorkers), m.Name))
		return false, nil
	}
	return false, hintf("there is no worker with number %d", id)
}

// toggleName adds a missing name and removes a present one, keeping the
// selection order stable.
func toggleName(selected []string, name string) []string {
	for i, existing := range selected {
		if existing == name {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, name)
}

func crewConfirm(r *wizard.Run) wizard.Screen {
	var sb strings.Builder
	sb.WriteString("<b>👥 Crew</b>\n\n")
	fmt.Fprintf(&sb, "Driver: %s\n", r.StringField(fieldDriver))
	sb.WriteString("Workers:\n")
	for i, name := range stringsField(r, fieldWorkers) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
	}
	sb.WriteString("\nSave the crew?")
	return wizard.Screen{Text: sb.String(), Keyboard: confirmKeyboard()}
}

func (b *Bot) persistCrew(ctx context.Context, r *wizard.Run) error {
	return b.svc.Crew.SaveCrew(ctx, primary.SaveCrewRequest{
		UserID:  r.UserID,
		Row:     r.Row,
		Driver:  r.StringField(fieldDriver),
		Workers: stringsField(r, fieldWorkers),
	})
}
