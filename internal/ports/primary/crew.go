package primary

import "context"

// CrewMember is a selectable directory entry with a stable per-dialogue
// numeric id (directory position, 1-based).
type CrewMember struct {
	ID   int
	Name string
}

// AddPersonRequest carries the name pieces for a new driver or worker.
type AddPersonRequest struct {
	LastName   string
	FirstName  string
	Patronymic string
}

// SaveCrewRequest is the confirmed crew selection.
type SaveCrewRequest struct {
	UserID  int64
	Row     int64
	Driver  string
	Workers []string
}

// CrewService backs the crew section wizard.
type CrewService interface {
	// ActiveDrivers lists selectable drivers with dialogue ids.
	ActiveDrivers(ctx context.Context) ([]CrewMember, error)

	// ActiveWorkers lists selectable workers with dialogue ids.
	ActiveWorkers(ctx context.Context) ([]CrewMember, error)

	// AddDriver validates, duplicate-checks and appends a new driver,
	// returning the compact directory name. An archived or existing name
	// fails with secondary.ErrDuplicate.
	AddDriver(ctx context.Context, req AddPersonRequest) (string, error)

	// AddWorker is AddDriver for the worker directory.
	AddWorker(ctx context.Context, req AddPersonRequest) (string, error)

	// SaveCrew persists the confirmed selection as one write and marks
	// the section done.
	SaveCrew(ctx context.Context, req SaveCrewRequest) error
}
