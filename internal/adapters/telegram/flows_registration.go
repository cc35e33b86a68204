package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/nameval"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

const (
	fieldRegLast       = "reg_last"
	fieldRegFirst      = "reg_first"
	fieldRegPatronymic = "reg_patronymic"
	fieldRegDisplay    = "reg_display"
)

func (b *Bot) registrationSpec() *wizard.Spec {
	return &wizard.Spec{
		Name: "registration",
		Steps: []wizard.Step{
			namePieceStep(fieldRegLast, "Welcome! Let's get you registered.\n\nEnter your last name:"),
			namePieceStep(fieldRegFirst, "Enter your first name:"),
			{
				Key: fieldRegPatronymic,
				Prompt: func(r *wizard.Run) wizard.Screen {
					return wizard.Screen{
						Text:     "Enter your patronymic, or skip:",
						Keyboard: skipKeyboard(),
					}
				},
				Handle: func(ctx context.Context, r *wizard.Run, input string) (bool, error) {
					if pressed(input, btnSkip) {
						r.SetField(fieldRegPatronymic, "")
						return true, nil
					}
					piece, err := nameval.ValidatePiece(input)
					if err != nil {
						return false, err
					}
					r.SetField(fieldRegPatronymic, piece)
					return true, nil
				},
			},
		},
		Confirm: registrationConfirm,
		Persist: b.persistRegistration,
	}
}

func namePieceStep(key, prompt string) wizard.Step {
	return wizard.Step{
		Key: key,
		Prompt: func(r *wizard.Run) wizard.Screen {
			return wizard.Screen{Text: prompt}
		},
		Handle: func(ctx context.Context, r *wizard.Run, input string) (bool, error) {
			piece, err := nameval.ValidatePiece(input)
			if err != nil {
				return false, err
			}
			r.SetField(key, piece)
			return true, nil
		},
	}
}

func registrationConfirm(r *wizard.Run) wizard.Screen {
	full := strings.TrimSpace(strings.Join([]string{
		r.StringField(fieldRegLast),
		r.StringField(fieldRegFirst),
		r.StringField(fieldRegPatronymic),
	}, " "))
	return wizard.Screen{
		Text:     fmt.Sprintf("Register as <b>%s</b>?", full),
		Keyboard: secondary.Keyboard{{btnConfirm, btnEdit}},
	}
}

func (b *Bot) persistRegistration(ctx context.Context, r *wizard.Run) error {
	profile, err := b.svc.Registration.Register(ctx, primary.RegisterRequest{
		TelegramID: r.UserID,
		LastName:   r.StringField(fieldRegLast),
		FirstName:  r.StringField(fieldRegFirst),
		Patronymic: r.StringField(fieldRegPatronymic),
	})
	if err != nil {
		return err
	}
	r.SetField(fieldRegDisplay, profile.Display)
	return nil
}
