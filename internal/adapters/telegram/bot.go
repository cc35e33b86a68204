package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/amount"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

// Services bundles the primary ports the bot drives.
type Services struct {
	Registration primary.RegistrationService
	Menu         primary.MenuService
	Crew         primary.CrewService
	Expenses     primary.ExpensesService
	Materials    primary.MaterialsService
	Close        primary.CloseService
}

// Bot routes chat updates to the services. One lane goroutine per user
// keeps that user's dialogue ordered while users stay independent.
type Bot struct {
	api     *tgbotapi.BotAPI
	msgr    secondary.Messenger
	tracker *MessageTracker
	svc     Services
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	states map[int64]*userState
}

// userState is the per-user routing state outside any wizard run.
type userState struct {
	userID        int64
	chatID        int64
	row           int64
	run           *wizard.Run
	section       secondary.Section
	menuMessageID int
	closing       bool
}

// NewBot wires the routing layer. The api client may be nil when updates
// are fed directly through HandleText and HandlePhoto.
func NewBot(api *tgbotapi.BotAPI, msgr secondary.Messenger, svc Services, logger *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		msgr:    msgr,
		tracker: NewMessageTracker(msgr, logger),
		svc:     svc,
		logger:  logger,
		now:     time.Now,
		states:  make(map[int64]*userState),
	}
}

const laneBuffer = 16

// Run consumes the update channel until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	var wg sync.WaitGroup
	lanes := make(map[int64]chan tgbotapi.Update)
	defer func() {
		for _, lane := range lanes {
			close(lane)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || msg.From == nil {
				continue
			}
			lane, exists := lanes[msg.From.ID]
			if !exists {
				lane = make(chan tgbotapi.Update, laneBuffer)
				lanes[msg.From.ID] = lane
				wg.Add(1)
				go func() {
					defer wg.Done()
					for u := range lane {
						b.dispatch(ctx, u.Message)
					}
				}()
			}
			select {
			case lane <- update:
			default:
				b.logger.Warn("user lane full, dropping update", zap.Int64("user_id", msg.From.ID))
			}
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		b.HandlePhoto(ctx, msg.From.ID, msg.Chat.ID, msg.MessageID, largest.FileID)
		return
	}
	if msg.Text != "" {
		b.HandleText(ctx, msg.From.ID, msg.Chat.ID, msg.MessageID, msg.Text)
	}
}

func (b *Bot) state(userID, chatID int64) *userState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[userID]
	if !ok {
		st = &userState{userID: userID}
		b.states[userID] = st
	}
	st.chatID = chatID
	return st
}

// HandleText routes one text message from a user.
func (b *Bot) HandleText(ctx context.Context, userID, chatID int64, messageID int, text string) {
	st := b.state(userID, chatID)
	switch {
	case text == "/start":
		b.handleStart(ctx, st)
	case st.run != nil:
		b.trackIncoming(st, messageID)
		b.handleRunInput(ctx, st, text)
	case st.closing:
		b.handleCloseInput(ctx, st, text)
	default:
		b.handleMenuInput(ctx, st, text)
	}
}

// HandlePhoto routes a photo attachment into the active dialogue.
func (b *Bot) HandlePhoto(ctx context.Context, userID, chatID int64, messageID int, fileID string) {
	st := b.state(userID, chatID)
	if st.run == nil {
		b.send(ctx, st, "Open the materials section before sending photos.", dashboardKeyboard())
		return
	}
	b.trackIncoming(st, messageID)
	b.handleRunInput(ctx, st, photoInputPrefix+fileID)
}

// trackIncoming records the user's own message during a dialogue, so the
// sweep removes their replies together with the prompts.
func (b *Bot) trackIncoming(st *userState, messageID int) {
	if messageID != 0 {
		b.tracker.Track(st.userID, st.chatID, messageID)
	}
}

func (b *Bot) handleStart(ctx context.Context, st *userState) {
	if st.run != nil {
		b.abortRun(ctx, st)
	}
	st.closing = false

	profile, err := b.svc.Registration.Profile(ctx, st.userID)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		b.startRun(ctx, st, b.registrationSpec(), "")
	case err != nil:
		b.reportFailure(ctx, st, "failed to load profile", err, nil)
	default:
		b.showDashboard(ctx, st, "Hello, "+profile.Display+"!")
	}
}

func (b *Bot) showDashboard(ctx context.Context, st *userState, greeting string) {
	text := "<b>🏗 Shift reports</b>\n\nStart a shift to fill in crew, expenses and materials."
	if greeting != "" {
		text = greeting + "\n\n" + text
	}
	b.send(ctx, st, text, dashboardKeyboard())
}

func (b *Bot) handleMenuInput(ctx context.Context, st *userState, text string) {
	switch {
	case pressed(text, btnStartShift) || text == "/shift":
		b.openMenu(ctx, st)
	case pressedPrefix(text, prefixCrew):
		b.startSection(ctx, st, secondary.SectionCrew)
	case pressedPrefix(text, prefixExpenses):
		b.startSection(ctx, st, secondary.SectionExpenses)
	case pressedPrefix(text, prefixMaterials):
		b.startSection(ctx, st, secondary.SectionMaterials)
	case pressed(text, btnFinishShift):
		b.requestClose(ctx, st)
	case pressed(text, btnToDashboard):
		b.showDashboard(ctx, st, "")
	default:
		b.send(ctx, st, "Use the keyboard buttons below.", dashboardKeyboard())
	}
}

// openMenu resolves the user's shift row and renders the menu. A held user
// lock means another operation is mid-flight, so the user just retries.
func (b *Bot) openMenu(ctx context.Context, st *userState) {
	view, err := b.svc.Menu.OpenMenu(ctx, st.userID)
	if err != nil {
		if errors.Is(err, primary.ErrBusy) {
			text, _ := userMessage(err)
			b.send(ctx, st, text, dashboardKeyboard())
			return
		}
		b.reportFailure(ctx, st, "failed to open shift menu", err, dashboardKeyboard())
		return
	}
	st.row = view.Row
	b.renderMenu(ctx, st, view)
}

func (b *Bot) refreshMenu(ctx context.Context, st *userState) {
	view, err := b.svc.Menu.RefreshMenu(ctx, st.userID, st.row)
	if err != nil {
		b.reportFailure(ctx, st, "failed to refresh shift menu", err, dashboardKeyboard())
		return
	}
	b.renderMenu(ctx, st, view)
}

// renderMenu replaces the previous menu message so only one menu is live.
func (b *Bot) renderMenu(ctx context.Context, st *userState, view *primary.MenuView) {
	if st.menuMessageID != 0 {
		if err := b.msgr.Delete(ctx, st.chatID, st.menuMessageID); err != nil && !errors.Is(err, secondary.ErrMessageGone) {
			b.logger.Warn("failed to delete previous menu", zap.Int64("user_id", st.userID), zap.Error(err))
		}
		st.menuMessageID = 0
	}

	var sb strings.Builder
	sb.WriteString("<b>📋 Shift menu</b>\n\nDate: " + view.Date + "\n")
	if view.Closed {
		sb.WriteString("\nThis shift is closed.")
	} else {
		sb.WriteString("\nFill in every section, then finish the shift.")
	}
	id, err := b.msgr.Send(ctx, st.chatID, sb.String(), shiftMenuKeyboard(view))
	if err != nil {
		b.logger.Error("failed to render menu", zap.Int64("user_id", st.userID), zap.Error(err))
		return
	}
	st.menuMessageID = id
}

func (b *Bot) startSection(ctx context.Context, st *userState, section secondary.Section) {
	if st.row == 0 {
		b.openMenu(ctx, st)
		return
	}
	view, err := b.svc.Menu.RefreshMenu(ctx, st.userID, st.row)
	if err != nil {
		b.reportFailure(ctx, st, "failed to check shift state", err, dashboardKeyboard())
		return
	}
	if view.Closed {
		b.send(ctx, st, "This shift is already closed.", shiftMenuKeyboard(view))
		return
	}

	var spec *wizard.Spec
	switch section {
	case secondary.SectionCrew:
		spec = b.crewSpec()
	case secondary.SectionExpenses:
		spec = b.expensesSpec()
	case secondary.SectionMaterials:
		spec = b.materialsSpec()
	}
	b.startRun(ctx, st, spec, section)
}

func (b *Bot) startRun(ctx context.Context, st *userState, spec *wizard.Spec, section secondary.Section) {
	run := wizard.NewRun(spec, st.userID, st.row)
	if err := run.Begin(ctx); err != nil {
		b.reportFailure(ctx, st, "failed to start dialogue", err, dashboardKeyboard())
		return
	}
	st.run = run
	st.section = section
	b.renderRun(ctx, st)
}

func (b *Bot) handleRunInput(ctx context.Context, st *userState, text string) {
	run := st.run

	switch {
	case pressed(text, btnMenu):
		b.abortRun(ctx, st)
		if run.Name() == "registration" {
			b.handleStart(ctx, st)
		} else {
			b.openMenu(ctx, st)
		}
		return
	case pressed(text, btnToDashboard):
		b.abortRun(ctx, st)
		b.showDashboard(ctx, st, "")
		return
	}

	if run.OnConfirm() {
		switch {
		case pressed(text, btnConfirm):
			b.commitRun(ctx, st)
		case pressed(text, btnEdit):
			if err := run.Edit(ctx); err != nil {
				b.logger.Error("failed to re-enter dialogue", zap.String("dialogue", run.Name()), zap.Error(err))
				return
			}
			b.renderRun(ctx, st)
		default:
			b.sendTracked(ctx, st, "⚠️ Confirm, edit, or leave with the buttons.", run.Screen().Keyboard)
		}
		return
	}

	if pressed(text, btnBack) {
		atFirst, err := run.Back(ctx)
		if err != nil {
			b.logger.Error("failed to step back", zap.String("dialogue", run.Name()), zap.Error(err))
			return
		}
		if atFirst {
			b.abortRun(ctx, st)
			if run.Name() == "registration" {
				b.handleStart(ctx, st)
			} else {
				b.openMenu(ctx, st)
			}
			return
		}
		b.renderRun(ctx, st)
		return
	}

	if _, err := run.Submit(ctx, text); err != nil {
		hint, unexpected := userMessage(err)
		if unexpected {
			b.logger.Error("dialogue input failed",
				zap.Int64("user_id", st.userID),
				zap.String("dialogue", run.Name()),
				zap.Error(err),
			)
		}
		b.sendTracked(ctx, st, hint, run.Screen().Keyboard)
		return
	}
	b.renderRun(ctx, st)
}

// commitRun persists the dialogue. On failure the run stays on the
// confirmation screen with nothing lost.
func (b *Bot) commitRun(ctx context.Context, st *userState) {
	run := st.run
	b.sendTracked(ctx, st, "💾 Saving…", nil)

	if err := run.Commit(ctx); err != nil {
		hint, unexpected := userMessage(err)
		if unexpected {
			b.logger.Error("failed to save dialogue",
				zap.Int64("user_id", st.userID),
				zap.String("dialogue", run.Name()),
				zap.Error(err),
			)
		}
		b.sendTracked(ctx, st, hint, run.Screen().Keyboard)
		return
	}

	st.run = nil
	b.tracker.Flush(ctx, st.userID)

	if run.Name() == "registration" {
		b.showDashboard(ctx, st, "✅ Registered. Hello, "+run.StringField(fieldRegDisplay)+"!")
		return
	}

	var note string
	switch st.section {
	case secondary.SectionCrew:
		note = "✅ Crew saved."
	case secondary.SectionExpenses:
		note = fmt.Sprintf("✅ Expenses saved. Total: %s ₽", amount.Format(run.IntField(fieldTotal)))
	case secondary.SectionMaterials:
		note = "✅ Materials saved.\nPhotos: " + run.StringField(fieldPhotosLink)
	}
	b.svc.Menu.MarkSectionDone(st.userID, st.section)
	st.section = ""
	b.send(ctx, st, note, nil)
	b.refreshMenu(ctx, st)
}

func (b *Bot) abortRun(ctx context.Context, st *userState) {
	if st.run != nil {
		st.run.Abort(ctx)
		st.run = nil
	}
	st.section = ""
	b.tracker.Flush(ctx, st.userID)
}

func (b *Bot) requestClose(ctx context.Context, st *userState) {
	check, err := b.svc.Close.RequestClose(ctx, st.userID, st.row)
	if err != nil {
		b.reportFailure(ctx, st, "failed to check close guard", err, dashboardKeyboard())
		return
	}
	switch {
	case check.AlreadyClosed:
		b.send(ctx, st, "This shift is already closed.", nil)
		b.refreshMenu(ctx, st)
	case !check.Allowed:
		b.send(ctx, st, "⚠️ Finish these sections first: "+sectionList(check.Missing), nil)
		b.refreshMenu(ctx, st)
	default:
		st.closing = true
		b.send(ctx, st, "Close the shift? The report will be posted to the work group.", closeKeyboard())
	}
}

func (b *Bot) handleCloseInput(ctx context.Context, st *userState, text string) {
	switch {
	case pressed(text, btnConfirmClose):
		res, err := b.svc.Close.ConfirmClose(ctx, st.userID, st.row)
		if err != nil {
			b.reportFailure(ctx, st, "failed to close shift", err, closeKeyboard())
			return
		}
		st.closing = false
		b.svc.Menu.ResetSession(st.userID)
		st.row = 0
		st.menuMessageID = 0
		if res.DidClose {
			b.showDashboard(ctx, st, "✅ Shift closed. Thank you for the report!")
		} else {
			b.showDashboard(ctx, st, "This shift was already closed.")
		}
	case pressed(text, btnCancelClose):
		st.closing = false
		b.refreshMenu(ctx, st)
	default:
		b.send(ctx, st, "Confirm or cancel the close with the buttons.", closeKeyboard())
	}
}

func sectionList(missing []secondary.Section) string {
	names := make([]string, 0, len(missing))
	for _, s := range missing {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// renderRun sweeps the previous screen with everything the user typed at
// it, then posts the current one. A dialogue keeps a single live prompt.
func (b *Bot) renderRun(ctx context.Context, st *userState) {
	if err := b.hydrateRun(ctx, st.run); err != nil {
		b.reportFailure(ctx, st, "failed to load directory options", err, nil)
		return
	}
	screen := st.run.Screen()
	b.tracker.Flush(ctx, st.userID)
	b.sendTracked(ctx, st, screen.Text, screen.Keyboard)
}

// hydrateRun refreshes the directory-backed option lists a step renders
// from, so additions made mid-dialogue are visible.
func (b *Bot) hydrateRun(ctx context.Context, r *wizard.Run) error {
	switch r.Name() {
	case "crew":
		if r.StepIndex() >= 0 {
			return b.hydrateCrewOptions(ctx, r)
		}
	case "expenses":
		if r.StepIndex() == 0 {
			return b.hydrateShipOptions(ctx, r)
		}
	}
	return nil
}

// send posts an untracked message that survives dialogue cleanup.
func (b *Bot) send(ctx context.Context, st *userState, text string, keyboard secondary.Keyboard) {
	if _, err := b.msgr.Send(ctx, st.chatID, text, keyboard); err != nil {
		b.logger.Error("failed to send message", zap.Int64("user_id", st.userID), zap.Error(err))
	}
}

// sendTracked posts a dialogue message swept at the next tracker flush.
func (b *Bot) sendTracked(ctx context.Context, st *userState, text string, keyboard secondary.Keyboard) {
	id, err := b.msgr.Send(ctx, st.chatID, text, keyboard)
	if err != nil {
		b.logger.Error("failed to send message", zap.Int64("user_id", st.userID), zap.Error(err))
		return
	}
	b.tracker.Track(st.userID, st.chatID, id)
}

// reportFailure logs an unexpected error and tells the user to retry later.
func (b *Bot) reportFailure(ctx context.Context, st *userState, what string, err error, keyboard secondary.Keyboard) {
	b.logger.Error(what, zap.Int64("user_id", st.userID), zap.Error(err))
	text, _ := userMessage(err)
	b.send(ctx, st, text, keyboard)
}
