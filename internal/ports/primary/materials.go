package primary

import (
	"context"
	"time"
)

// Photo is one captured materials photo ready for upload.
type Photo struct {
	Content   []byte
	TimeLabel string
	Ext       string
}

// SaveMaterialsRequest is the confirmed materials batch.
type SaveMaterialsRequest struct {
	UserID     int64
	Row        int64
	Day        time.Time
	FilmMeters int
	TubeCount  int
	TapeCount  int
	Photos     []Photo
}

// MaterialsService backs the materials section wizard.
type MaterialsService interface {
	// SaveMaterials uploads every photo under a deterministic name
	// (bumping the ordinal on a name conflict), publishes the dated
	// folder and persists the link plus the three numeric fields in one
	// write. Upload failures abort the save: secondary.ErrUnauthorized
	// for credential problems, anything else wrapped as a generic
	// external error. The returned link is the published folder URL.
	SaveMaterials(ctx context.Context, req SaveMaterialsRequest) (link string, err error)
}
