package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/amount"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

const (
	fieldShip        = "ship"
	fieldShipAdded   = "ship_added"
	fieldShipOptions = "ship_options"
	fieldHolds       = "holds"
	fieldTotal       = "total"
)

// moneyFields lists the expense steps in entry and report order.
var moneyFields = []struct {
	key   string
	title string
}{
	{"transport", "Transport"},
	{"foreman", "Foreman"},
	{"workers_pay", "Workers"},
	{"auxiliary", "Auxiliary"},
	{"food", "Food"},
	{"taxi", "Taxi"},
	{"other", "Other"},
}

func (b *Bot) expensesSpec() *wizard.Spec {
	steps := []wizard.Step{
		{Key: "ship", Prompt: shipPrompt, Handle: b.handleShipInput},
		{Key: "holds", Prompt: holdsPrompt, Handle: handleHoldsInput},
	}
	for _, f := range moneyFields {
		steps = append(steps, moneyStep(f.key, f.title))
	}
	return &wizard.Spec{
		Name:    "expenses",
		Steps:   steps,
		Confirm: expensesConfirm,
		Persist: b.persistExpenses,
	}
}

func (b *Bot) hydrateShipOptions(ctx context.Context, r *wizard.Run) error {
	ships, err := b.svc.Expenses.ActiveShips(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ships: %w", err)
	}
	r.Fields[fieldShipOptions] = ships
	return nil
}

func shipPrompt(r *wizard.Run) wizard.Screen {
	var sb strings.Builder
	sb.WriteString("<b>🧾 Expenses</b>\n\nEnter the vessel name. Known vessels:\n")
	for _, name := range stringsField(r, fieldShipOptions) {
		sb.WriteString("• " + name + "\n")
	}
	sb.WriteString("\nAn unknown name is added to the directory.")
	return wizard.Screen{Text: sb.String(), Keyboard: navKeyboard()}
}

func (b *Bot) handleShipInput(ctx context.Context, r *wizard.Run, input string) (bool, error) {
	res, err := b.svc.Expenses.ResolveShip(ctx, input)
	if err != nil {
		return false, err
	}
	r.SetField(fieldShip, res.Name)
	r.Fields[fieldShipAdded] = res.Added
	return true, nil
}

func holdsPrompt(r *wizard.Run) wizard.Screen {
	return wizard.Screen{
		Text:     "How many holds were worked? (1-7)",
		Keyboard: holdsKeyboard(),
	}
}

func handleHoldsInput(ctx context.Context, r *wizard.Run, input string) (bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > 7 {
		return false, hintf("pick a hold count from 1 to 7")
	}
	r.SetField(fieldHolds, n)
	return true, nil
}

func moneyStep(key, title string) wizard.Step {
	return wizard.Step{
		Key: key,
		Prompt: func(r *wizard.Run) wizard.Screen {
			return wizard.Screen{
				Text:     title + " expenses, ₽ (digits only, or skip):",
				Keyboard: skipKeyboard(),
			}
		},
		Handle: func(ctx context.Context, r *wizard.Run, input string) (bool, error) {
			n, err := amount.Parse(input, btnSkip)
			if err != nil {
				return false, err
			}
			r.SetField(key, n)
			return true, nil
		},
	}
}

func expensesForm(r *wizard.Run) primary.ExpensesForm {
	return primary.ExpensesForm{
		Ship:      r.StringField(fieldShip),
		Holds:     r.IntField(fieldHolds),
		Transport: r.IntField("transport"),
		Foreman:   r.IntField("foreman"),
		Workers:   r.IntField("workers_pay"),
		Auxiliary: r.IntField("auxiliary"),
		Food:      r.IntField("food"),
		Taxi:      r.IntField("taxi"),
		Other:     r.IntField("other"),
	}
}

func expensesConfirm(r *wizard.Run) wizard.Screen {
	form := expensesForm(r)
	var sb strings.Builder
	sb.WriteString("<b>🧾 Expenses</b>\n\n")
	fmt.Fprintf(&sb, "Vessel: %s\n", form.Ship)
	if added, ok := r.Fields[fieldShipAdded].(bool); ok && added {
		sb.WriteString("(new vessel, added to the directory)\n")
	}
	fmt.Fprintf(&sb, "Holds: %d\n\n", form.Holds)
	for _, f := range moneyFields {
		fmt.Fprintf(&sb, "%s: %s ₽\n", f.title, amount.Format(r.IntField(f.key)))
	}
	fmt.Fprintf(&sb, "\n<b>Total: %s ₽</b>\n\nSave the expenses?", amount.Format(form.Total()))
	return wizard.Screen{Text: sb.String(), Keyboard: confirmKeyboard()}
}

func (b *Bot) persistExpenses(ctx context.Context, r *wizard.Run) error {
	total, err := b.svc.Expenses.SaveExpenses(ctx, primary.SaveExpensesRequest{
		UserID: r.UserID,
		Row:    r.Row,
		Form:   expensesForm(r),
	})
	if err != nil {
		return err
	}
	r.SetField(fieldTotal, total)
	return nil
}
