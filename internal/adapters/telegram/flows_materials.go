package telegram

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/amount"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/photo"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

const (
	fieldFilm       = "film_meters"
	fieldTubes      = "tube_count"
	fieldTape       = "tape_count"
	fieldPhotos     = "photos"
	fieldPhotosLink = "photos_link"
)

// photoInputPrefix marks synthetic inputs the update loop builds from photo
// attachments; everything after it is the platform file id.
const photoInputPrefix = "photo:"

func (b *Bot) materialsSpec() *wizard.Spec {
	return &wizard.Spec{
		Name: "materials",
		Steps: []wizard.Step{
			quantityStep(fieldFilm, "<b>📦 Materials</b>\n\nPVD film used, meters"),
			quantityStep(fieldTubes, "PVC tubes used, pieces"),
			quantityStep(fieldTape, "Tape used, rolls"),
			{Key: "photos", Prompt: photosPrompt, Handle: handlePhotosInput},
		},
		Confirm: materialsConfirm,
		Persist: b.persistMaterials,
	}
}

func quantityStep(key, title string) wizard.Step {
	return wizard.Step{
		Key: key,
		Prompt: func(r *wizard.Run) wizard.Screen {
			return wizard.Screen{
				Text:     title + " (digits only, or skip):",
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

func photosPrompt(r *wizard.Run) wizard.Screen {
	attached := len(stringsField(r, fieldPhotos))
	text := fmt.Sprintf(
		"Send photos of the packed holds.\n\nAttached: %d\n\nConfirm when every hold is pictured.",
		attached,
	)
	return wizard.Screen{
		Text:     text,
		Keyboard: navKeyboard([]string{btnRemoveLastPhoto}, []string{btnConfirm}),
	}
}

func handlePhotosInput(ctx context.Context, r *wizard.Run, input string) (bool, error) {
	if fileID, ok := strings.CutPrefix(input, photoInputPrefix); ok {
		r.SetField(fieldPhotos, append(stringsField(r, fieldPhotos), fileID))
		return false, nil
	}

	switch {
	case pressed(input, btnRemoveLastPhoto):
		photos := stringsField(r, fieldPhotos)
		if len(photos) > 0 {
			r.SetField(fieldPhotos, photos[:len(photos)-1])
		}
		return false, nil
	case pressed(input, btnConfirm):
		if len(stringsField(r, fieldPhotos)) == 0 {
			return false, hintf("attach at least one photo first")
		}
		return true, nil
	}
	return false, hintf("send a photo, or confirm the batch")
}

func materialsConfirm(r *wizard.Run) wizard.Screen {
	var sb strings.Builder
	sb.WriteString("<b>📦 Materials</b>\n\n")
	fmt.Fprintf(&sb, "PVD film: %d m\n", r.IntField(fieldFilm))
	fmt.Fprintf(&sb, "PVC tubes: %d\n", r.IntField(fieldTubes))
	fmt.Fprintf(&sb, "Tape: %d\n", r.IntField(fieldTape))
	fmt.Fprintf(&sb, "Photos: %d\n", len(stringsField(r, fieldPhotos)))
	sb.WriteString("\nUpload the photos and save?")
	return wizard.Screen{Text: sb.String(), Keyboard: confirmKeyboard()}
}

// persistMaterials downloads the collected photos from the chat platform
// and hands the whole batch to the service, which uploads, publishes the
// dated folder and writes the record in one call.
func (b *Bot) persistMaterials(ctx context.Context, r *wizard.Run) error {
	fileIDs := stringsField(r, fieldPhotos)
	photos := make([]primary.Photo, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		content, remotePath, err := b.msgr.Download(ctx, fileID)
		if err != nil {
			return fmt.Errorf("failed to fetch photo from chat: %w", err)
		}
		photos = append(photos, primary.Photo{
			Content:   content,
			TimeLabel: photo.TimeLabel(b.now()),
			Ext:       photo.NormalizeExt(path.Ext(remotePath)),
		})
	}

	link, err := b.svc.Materials.SaveMaterials(ctx, primary.SaveMaterialsRequest{
		UserID:     r.UserID,
		Row:        r.Row,
		Day:        b.now(),
		FilmMeters: r.IntField(fieldFilm),
		TubeCount:  r.IntField(fieldTubes),
		TapeCount:  r.IntField(fieldTape),
		Photos:     photos,
	})
	if err != nil {
		return err
	}
	r.SetField(fieldPhotosLink, link)
	return nil
}
