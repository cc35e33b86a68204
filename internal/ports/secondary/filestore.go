package secondary

import "context"

// FileStore defines the secondary port for the remote photo store.
type FileStore interface {
	// EnsureDatedFolder creates the folder for a shift day if missing.
	EnsureDatedFolder(ctx context.Context, title string) error

	// Upload stores content under name inside folder. A name collision
	// fails with ErrNameConflict; callers resolve it by bumping the
	// ordinal in the name and retrying. Invalid credentials fail with
	// ErrUnauthorized.
	Upload(ctx context.Context, content []byte, name, folder, contentType string) error

	// PublishLink makes the folder publicly reachable and returns its URL.
	PublishLink(ctx context.Context, folder string) (string, error)
}
