package primary

import "context"

// ShipResolution is the outcome of matching free-text vessel input against
// the ship directory.
type ShipResolution struct {
	Name  string
	Added bool
}

// ExpensesForm carries the collected expense fields before persistence.
type ExpensesForm struct {
	Ship      string
	Holds     int
	Transport int
	Foreman   int
	Workers   int
	Auxiliary int
	Food      int
	Taxi      int
	Other     int
}

// Total is the derived sum of the seven monetary fields.
func (f ExpensesForm) Total() int {
	return f.Transport + f.Foreman + f.Workers + f.Auxiliary + f.Food + f.Taxi + f.Other
}

// SaveExpensesRequest is the confirmed expenses batch.
type SaveExpensesRequest struct {
	UserID int64
	Row    int64
	Form   ExpensesForm
}

// ExpensesService backs the expenses section wizard.
type ExpensesService interface {
	// ActiveShips lists selectable vessel names.
	ActiveShips(ctx context.Context) ([]string, error)

	// ResolveShip matches input against the directory case-insensitively,
	// or validates it as a new vessel name and appends it. Invalid names
	// fail with *ship.InvalidNameError.
	ResolveShip(ctx context.Context, input string) (*ShipResolution, error)

	// SaveExpenses persists the confirmed batch (including the derived
	// total) as one write and marks the section done.
	SaveExpenses(ctx context.Context, req SaveExpensesRequest) (total int, err error)
}
