package bot

// BOT KEYBOARDS

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/pricing"
	"cleancloak-bot/internal/wizard"
)

func navRow(w *wizard.Wizard) []tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"),
	}
	if w.Stage() != wizard.StageReview {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Continue ➡️", "nav:next"))
	}
	return row
}

// jumpRows lets the user hop straight back to an earlier stage instead of
// tapping Back repeatedly. Only completed stages are offered; forward jumps
// are rejected by the wizard anyway.
func jumpRows(w *wizard.Wizard) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	row := []tgbotapi.InlineKeyboardButton{}
	for i, def := range w.ActiveStages() {
		if i >= w.StageIndex() {
			break
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✏️ "+def.Label, "jump:"+string(def.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (b *Bot) createRoleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧽 I need a cleaning", "role:client"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💼 I'm a cleaner", "role:cleaner"),
		),
	)
}

func (b *Bot) createContactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share my number"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func (b *Bot) createServiceCategoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚗 Car Detailing", "cat:"+string(catalog.CategoryCarDetailing)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Home Cleaning", "cat:"+string(catalog.CategoryHomeCleaning)),
		),
	)
}

func (b *Bot) createVehicleKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, v := range b.cat.Vehicles() {
		label := fmt.Sprintf("%s %s", v.Icon, v.Name)
		if w.Draft().Vehicle == v.ID {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "veh:"+string(v.ID)),
		))
	}
	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createCleaningCategoryKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range b.cat.CleaningCategories() {
		label := fmt.Sprintf("%s %s", c.Icon, c.Name)
		if w.Draft().Cleaning.Category == c.ID {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "clean:"+string(c.ID)),
		))
	}
	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createPackageKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range b.cat.Packages() {
		label := p.Name
		if w.Draft().Package == p.ID {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "pkg:"+string(p.ID)),
		))
	}

	if b.cat.TierApplies(w.Draft().Vehicle) {
		tierRow := []tgbotapi.InlineKeyboardButton{}
		for _, t := range []catalog.Tier{catalog.TierStandard, catalog.TierPremium} {
			label := string(t)
			if w.Draft().Tier == t || (w.Draft().Tier == "" && t == catalog.TierStandard) {
				label = "✅ " + label
			}
			tierRow = append(tierRow, tgbotapi.NewInlineKeyboardButtonData(label, "tier:"+string(t)))
		}
		rows = append(rows, tierRow)
	}

	if pkg, ok := b.cat.Package(w.Draft().Package); ok {
		if pkg.RequiresStage {
			for _, st := range b.cat.PaintStages() {
				label := st.Name
				if w.Draft().PaintStage == st.ID {
					label = "✅ " + label
				}
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData(label, "stg:"+string(st.ID)),
				))
			}
		}
		if pkg.RequiresCarCount {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➖", "fleet:dec"),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d cars", w.Draft().FleetCount), "fleet:noop"),
				tgbotapi.NewInlineKeyboardButtonData("➕", "fleet:inc"),
			))
		}
	}

	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createHouseCleaningKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	sel := w.Draft().Cleaning
	var rows [][]tgbotapi.InlineKeyboardButton

	switch sel.Category {
	case catalog.CleaningHouse:
		for _, ht := range []struct {
			id    catalog.HouseCleaningType
			label string
		}{
			{catalog.HouseBathroom, "🛁 Bathroom"},
			{catalog.HouseWindow, "🪟 Windows"},
			{catalog.HouseRoom, "🛏 Room Deep Clean"},
		} {
			label := ht.label
			if sel.HouseType == ht.id {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "house:"+string(ht.id)),
			))
		}
		switch sel.HouseType {
		case catalog.HouseBathroom:
			rows = append(rows, b.bathroomRows(sel)...)
		case catalog.HouseWindow:
			rows = append(rows, b.windowRows(sel)...)
		case catalog.HouseRoom:
			rows = append(rows, b.roomSizeRows(sel.RoomSize)...)
		}
	case catalog.CleaningFumigation:
		for _, ft := range []struct {
			id    catalog.FumigationType
			label string
		}{
			{catalog.FumigationGeneral, "🦟 General Pest Control"},
			{catalog.FumigationBedBug, "🛏 Bed Bug Treatment"},
		} {
			label := ft.label
			if sel.FumigationType == ft.id {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "fum:"+string(ft.id)),
			))
		}
		rows = append(rows, b.roomSizeRows(sel.RoomSize)...)
	case catalog.CleaningMoveInOut, catalog.CleaningPostConstruction:
		rows = append(rows, b.roomSizeRows(sel.RoomSize)...)
	}

	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) bathroomRows(sel pricing.CleaningSelection) [][]tgbotapi.InlineKeyboardButton {
	p := b.cat.Bathroom()
	items := []struct {
		label   string
		data    string
		checked bool
		price   int
	}{
		{"General clean", "bath:general", sel.Bathroom.General, p.General},
		{"Sink", "bath:sink", sel.Bathroom.Sink, p.Sink},
		{"Toilet", "bath:toilet", sel.Bathroom.Toilet, p.Toilet},
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		label := fmt.Sprintf("%s · KES %s", item.label, formatKES(item.price))
		if item.checked {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, item.data),
		))
	}
	return rows
}

func (b *Bot) windowRows(sel pricing.CleaningSelection) [][]tgbotapi.InlineKeyboardButton {
	wholeLabel := "🏠 Whole house"
	if sel.Windows.WholeHouse {
		wholeLabel = "✅ " + wholeLabel
	}
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("➖", "win:small-"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Small: %d", sel.Windows.Small), "win:noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "win:small+"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("➖", "win:large-"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Large: %d", sel.Windows.Large), "win:noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "win:large+"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(wholeLabel, "win:whole"),
		},
	}
}

func (b *Bot) roomSizeRows(selected catalog.RoomSize) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	sizes := b.cat.RoomSizes()
	for i := 0; i < len(sizes); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{}
		for _, size := range sizes[i:min(i+2, len(sizes))] {
			label := roomSizeLabel(size)
			if size == selected {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "room:"+string(size)))
		}
		rows = append(rows, row)
	}
	return rows
}

func roomSizeLabel(size catalog.RoomSize) string {
	switch size {
	case catalog.RoomStudio:
		return "Studio"
	case catalog.Room1Bed:
		return "1 Bedroom"
	case catalog.Room2Bed:
		return "2 Bedroom"
	case catalog.Room3Bed:
		return "3 Bedroom"
	case catalog.Room4Bed:
		return "4 Bedroom"
	case catalog.Room5Bed:
		return "5 Bedroom"
	}
	return string(size)
}

func (b *Bot) createExtrasKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, e := range b.cat.Extras() {
		label := fmt.Sprintf("%s %s · KES %s", e.Icon, e.Name, formatKES(e.Price))
		if w.Draft().HasExtra(e.ID) {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "extra:"+string(e.ID)),
		))
	}
	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createScheduleKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	d := w.Draft()
	var rows [][]tgbotapi.InlineKeyboardButton

	nowLabel := "⚡️ As soon as possible"
	laterLabel := "📅 Schedule for later"
	if d.BookingType == wizard.BookingImmediate {
		nowLabel = "✅ " + nowLabel
	} else {
		laterLabel = "✅ " + laterLabel
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(nowLabel, "book:immediate")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(laterLabel, "book:scheduled")),
	)

	if d.BookingType == wizard.BookingScheduled {
		today := time.Now()
		dateRow := []tgbotapi.InlineKeyboardButton{}
		for i := 1; i <= 3; i++ {
			day := today.AddDate(0, 0, i)
			dateRow = append(dateRow, tgbotapi.NewInlineKeyboardButtonData(
				day.Format("Mon 2 Jan"),
				"date:"+day.Format("2006-01-02"),
			))
		}
		rows = append(rows, dateRow)

		timeRow := []tgbotapi.InlineKeyboardButton{}
		for _, slot := range []string{"09:00", "12:00", "15:00"} {
			label := slot
			if d.ScheduledTime == slot {
				label = "✅ " + label
			}
			timeRow = append(timeRow, tgbotapi.NewInlineKeyboardButtonData(label, "time:"+slot))
		}
		rows = append(rows, timeRow)
	}

	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createLocationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Share my location"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Type my address instead"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func (b *Bot) createReviewKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("✅ Confirm booking", "submit")},
	}
	rows = append(rows, jumpRows(w)...)
	rows = append(rows, navRow(w))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
