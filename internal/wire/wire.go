// Package wire assembles the application graph. Everything is constructed
// explicitly and passed down; there are no lazily initialized singletons.
package wire

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/disk"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/excel"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/memory"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/sqlite"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/telegram"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/app"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/config"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/db"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// DirectoryAdmin extends the directory port with the archive operation the
// terminal commands need.
type DirectoryAdmin interface {
	secondary.DirectoryRepository
	Archive(ctx context.Context, kind secondary.EntryKind, name string) error
}

// Storage bundles the record store adapters for the selected backend.
type Storage struct {
	Shifts    secondary.ShiftRepository
	Directory DirectoryAdmin
	Profiles  secondary.ProfileRepository
	Close     func() error
}

// OpenStorage opens the record store named by the configuration.
func OpenStorage(cfg *config.Config) (*Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return &Storage{
			Shifts:    sqlite.NewShiftRepository(database),
			Directory: sqlite.NewDirectoryRepository(database),
			Profiles:  sqlite.NewProfileRepository(database),
			Close:     database.Close,
		}, nil
	case config.BackendExcel:
		wb, err := excel.OpenWorkbook(cfg.WorkbookPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		return &Storage{
			Shifts:    excel.NewShiftStore(wb),
			Directory: excel.NewDirectoryStore(wb),
			Profiles:  excel.NewProfileStore(wb),
			Close:     func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown record store backend %q", cfg.Backend)
	}
}

// BuildServices constructs the primary services over the given storage.
func BuildServices(cfg *config.Config, storage *Storage, notifier secondary.GroupNotifier, logger *zap.Logger) telegram.Services {
	sessions := memory.NewSessionStore()
	locks := memory.NewUserLocks()
	recent := memory.NewNotifyCache(0)
	files := disk.NewClient(cfg.DiskBaseURL, cfg.DiskToken, cfg.DiskRoot, logger)

	menu := app.NewMenuService(storage.Shifts, sessions, locks, logger)
	return telegram.Services{
		Registration: app.NewRegistrationService(storage.Profiles, logger),
		Menu:         menu,
		Crew:         app.NewCrewService(storage.Shifts, storage.Directory, menu, logger),
		Expenses:     app.NewExpensesService(storage.Shifts, storage.Directory, menu, logger),
		Materials:    app.NewMaterialsService(storage.Shifts, files, menu, logger),
		Close:        app.NewCloseService(storage.Shifts, storage.Profiles, notifier, recent, logger),
	}
}

// BuildBot wires the full bot: chat client, storage, services, routing.
// The caller owns storage.Close.
func BuildBot(cfg *config.Config, logger *zap.Logger) (*telegram.Bot, *Storage, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to chat platform: %w", err)
	}

	storage, err := OpenStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	msgr := telegram.NewMessenger(api)
	notifier := telegram.NewGroupNotifier(api, cfg.GroupChatID)
	svc := BuildServices(cfg, storage, notifier, logger)
	return telegram.NewBot(api, msgr, svc, logger), storage, nil
}
