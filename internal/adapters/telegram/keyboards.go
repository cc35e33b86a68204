package telegram

import (
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// Button labels. Section buttons carry a status badge, so routing matches
// them by prefix.
const (
	btnStartShift  = "🚀 Start shift"
	btnToDashboard = "⬅ To dashboard"
	btnFinishShift = "✅ Finish shift"

	prefixCrew      = "👥 Crew"
	prefixExpenses  = "🧾 Expenses"
	prefixMaterials = "📦 Materials"

	badgeDone = "✅ done"
	badgeTodo = "✍️ fill in"

	btnConfirm = "✅ Confirm"
	btnEdit    = "✏️ Edit"
	btnBack    = "⬅ Back"
	btnMenu    = "🏠 Shift menu"
	btnSkip    = "Skip"

	btnAddDriver    = "➕ Add driver"
	btnAddWorker    = "➕ Add worker"
	btnClearWorkers = "🧹 Clear workers"

	btnRemoveLastPhoto = "🗑 Remove last photo"

	btnConfirmClose = "✅ Confirm close"
	btnCancelClose  = "↩ Cancel"
)

func sectionButton(prefix string, done bool) string {
	if done {
		return prefix + " — " + badgeDone
	}
	return prefix + " — " + badgeTodo
}

func dashboardKeyboard() secondary.Keyboard {
	return secondary.Keyboard{{btnStartShift}}
}

// shiftMenuKeyboard lays out one section button per row, the finish button
// only when every section is done on an open shift, and the dashboard exit.
func shiftMenuKeyboard(view *primary.MenuView) secondary.Keyboard {
	kb := secondary.Keyboard{
		{sectionButton(prefixCrew, view.Sections[secondary.SectionCrew])},
		{sectionButton(prefixExpenses, view.Sections[secondary.SectionExpenses])},
		{sectionButton(prefixMaterials, view.Sections[secondary.SectionMaterials])},
	}
	if view.CanFinish {
		kb = append(kb, []string{btnFinishShift})
	}
	return append(kb, []string{btnToDashboard})
}

func navKeyboard(extra ...[]string) secondary.Keyboard {
	kb := secondary.Keyboard{}
	kb = append(kb, extra...)
	return append(kb, []string{btnBack, btnMenu})
}

func confirmKeyboard() secondary.Keyboard {
	return secondary.Keyboard{{btnConfirm, btnEdit}, {btnMenu}}
}

func skipKeyboard() secondary.Keyboard {
	return navKeyboard([]string{btnSkip})
}

func holdsKeyboard() secondary.Keyboard {
	return navKeyboard([]string{"1", "2", "3", "4"}, []string{"5", "6", "7"})
}

func closeKeyboard() secondary.Keyboard {
	return secondary.Keyboard{{btnConfirmClose}, {btnCancelClose}}
}
