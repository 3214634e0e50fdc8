package bot

// WIZARD STAGE HANDLERS

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/wizard"
	"cleancloak-bot/pkg/api"
)

// handleCallback routes an inline-button press to the matching selection
// handler, then re-renders the stage with the updated running total.
func (b *Bot) handleCallback(ctx context.Context, chatID int64, w *wizard.Wizard, data string) {
	action, value, _ := strings.Cut(data, ":")

	var err error
	switch action {
	case "role":
		b.handleRoleChoice(ctx, chatID, w, value)
		return
	case "cat":
		err = w.SelectServiceCategory(catalog.ServiceCategory(value))
	case "veh":
		err = w.SelectVehicle(catalog.VehicleType(value))
	case "tier":
		err = w.SelectTier(catalog.Tier(value))
	case "pkg":
		err = w.SelectPackage(catalog.PackageID(value))
	case "stg":
		err = w.SelectPaintStage(catalog.PaintStageID(value))
	case "fleet":
		err = b.applyFleetDelta(w, value)
	case "extra":
		err = w.ToggleExtra(catalog.ExtraID(value))
	case "clean":
		err = w.SelectCleaningCategory(catalog.CleaningCategoryID(value))
	case "house":
		err = w.SelectHouseType(catalog.HouseCleaningType(value))
	case "fum":
		err = w.SelectFumigationType(catalog.FumigationType(value))
	case "room":
		err = w.SelectRoomSize(catalog.RoomSize(value))
	case "bath":
		err = b.applyBathroomToggle(w, value)
	case "win":
		err = b.applyWindowDelta(w, value)
	case "book":
		err = w.SetBookingType(wizard.BookingType(value))
	case "date":
		err = w.SetSchedule(value, w.Draft().ScheduledTime)
	case "time":
		err = w.SetSchedule(w.Draft().ScheduledDate, value)
	case "nav":
		b.handleNav(ctx, chatID, w, value)
		return
	case "jump":
		err = w.JumpTo(wizard.StageID(value))
	case "submit":
		b.handleSubmit(ctx, chatID, w)
		return
	default:
		return
	}

	if err != nil {
		if errors.Is(err, wizard.ErrSubmissionInFlight) {
			b.sendError(chatID, "Hold on, your booking is being submitted...")
			return
		}
		b.logger.Warn("Selection rejected",
			zap.Int64("chat_id", chatID),
			zap.String("data", data),
			zap.Error(err))
		b.renderStage(ctx, chatID, w)
		return
	}

	w.AdvanceIfComplete()
	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

func (b *Bot) handleRoleChoice(ctx context.Context, chatID int64, w *wizard.Wizard, value string) {
	if err := w.SelectRole(wizard.UserType(value)); err != nil {
		return
	}
	if wizard.UserType(value) == wizard.UserCleaner {
		// Cleaner onboarding happens outside the booking flow.
		b.sendMessage(tgbotapi.NewMessage(chatID,
			"Thanks for your interest in working with Clean Cloak! "+
				"Our team will reach out on the number you contact us from. "+
				"Send /start any time to book a cleaning instead."))
		if err := b.state.Clear(ctx, chatID); err != nil {
			b.logger.Warn("State clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}
	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

func (b *Bot) applyFleetDelta(w *wizard.Wizard, value string) error {
	count := w.Draft().FleetCount
	switch value {
	case "inc":
		count++
	case "dec":
		count--
	default:
		return nil
	}
	return w.SetFleetCount(count)
}

func (b *Bot) applyBathroomToggle(w *wizard.Wizard, value string) error {
	items := w.Draft().Cleaning.Bathroom
	switch value {
	case "general":
		items.General = !items.General
	case "sink":
		items.Sink = !items.Sink
	case "toilet":
		items.Toilet = !items.Toilet
	}
	return w.SetBathroomItems(items)
}

func (b *Bot) applyWindowDelta(w *wizard.Wizard, value string) error {
	count := w.Draft().Cleaning.Windows
	switch value {
	case "small+":
		count.Small++
	case "small-":
		if count.Small > 0 {
			count.Small--
		}
	case "large+":
		count.Large++
	case "large-":
		if count.Large > 0 {
			count.Large--
		}
	case "whole":
		count.WholeHouse = !count.WholeHouse
	default:
		return nil
	}
	return w.SetWindowCount(count)
}

func (b *Bot) handleNav(ctx context.Context, chatID int64, w *wizard.Wizard, value string) {
	switch value {
	case "next":
		if err := w.Next(); err != nil {
			var gate *wizard.GateError
			if errors.As(err, &gate) {
				b.sendError(chatID, gate.Message)
				return
			}
			if errors.Is(err, wizard.ErrSubmissionInFlight) {
				return
			}
			b.logger.Error("Next failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	case "back":
		exited, err := w.Back()
		if err != nil {
			return
		}
		if exited {
			if err := b.state.Clear(ctx, chatID); err != nil {
				b.logger.Warn("State clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
			}
			b.sendMessage(tgbotapi.NewMessage(chatID, "Booking cancelled. Send /start when you're ready."))
			return
		}
	}
	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

// handleTextInput feeds free text into whichever stage expects it.
func (b *Bot) handleTextInput(ctx context.Context, chatID int64, w *wizard.Wizard, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	switch w.Stage() {
	case wizard.StageAccount:
		if !w.OnCredentials() {
			b.renderStage(ctx, chatID, w)
			return
		}
		b.handleCredentialsInput(ctx, chatID, w, text)
	case wizard.StageSchedule:
		if text == "Type my address instead" {
			b.sendMessage(tgbotapi.NewMessage(chatID, "Please type your address (estate, street, house):"))
			return
		}
		if err := w.SetLocation(wizard.Location{ManualAddress: text}); err != nil {
			return
		}
		b.saveWizard(ctx, chatID, w)
		b.renderStage(ctx, chatID, w)
	default:
		b.renderStage(ctx, chatID, w)
	}
}

// handleCredentialsInput parses "Name, 07XXXXXXXX" or a bare phone number.
func (b *Bot) handleCredentialsInput(ctx context.Context, chatID int64, w *wizard.Wizard, text string) {
	name := ""
	phone := text
	if before, after, found := strings.Cut(text, ","); found {
		name = strings.TrimSpace(before)
		phone = strings.TrimSpace(after)
	}

	if !IsValidPhoneNumber(phone) {
		b.sendError(chatID, "That doesn't look like a Kenyan phone number. Use 07XXXXXXXX or +2547XXXXXXXX.")
		return
	}

	if err := w.SetContact(name, NormalizePhoneNumber(phone)); err != nil {
		return
	}
	if err := w.Next(); err != nil {
		b.logger.Error("Advance past credentials failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

func (b *Bot) handlePhoneInput(ctx context.Context, chatID int64, w *wizard.Wizard, phone string) {
	if w.Stage() != wizard.StageAccount || !w.OnCredentials() {
		return
	}
	b.handleCredentialsInput(ctx, chatID, w, phone)
}

// handleLocationShare resolves shared coordinates to an address for the
// review screen; the raw coordinates go into the draft either way.
func (b *Bot) handleLocationShare(ctx context.Context, chatID int64, w *wizard.Wizard, lat, lng float64) {
	if w.Stage() != wizard.StageSchedule {
		return
	}

	loc := wizard.Location{Coordinates: []float64{lat, lng}}
	if address, err := b.apiClient.ReverseGeocode(ctx, lat, lng); err == nil {
		loc.Address = address
	} else {
		b.logger.Warn("Reverse geocode failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	if err := w.SetLocation(loc); err != nil {
		return
	}
	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

func (b *Bot) handleSubmit(ctx context.Context, chatID int64, w *wizard.Wizard) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "⏳ Submitting your booking..."))
	b.saveWizard(ctx, chatID, w)

	rec, err := b.submitter.Submit(ctx, chatID, w)
	if err != nil {
		b.saveWizard(ctx, chatID, w)
		if errors.Is(err, wizard.ErrSubmissionInFlight) {
			return
		}
		var gate *wizard.GateError
		if errors.As(err, &gate) {
			b.sendError(chatID, gate.Message)
			b.renderStage(ctx, chatID, w)
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			b.sendError(chatID, "Booking failed: "+apiErr.Message+". Your details are saved, tap Confirm to try again.")
		} else {
			b.sendError(chatID, "We couldn't reach the booking service. Your details are saved, tap Confirm to try again.")
		}
		return
	}

	b.saveWizard(ctx, chatID, w)

	text := fmt.Sprintf(
		"🎉 Booking confirmed!\n\n"+
			"Reference: %s\n"+
			"Service: %s\n"+
			"Total: KES %s\n\n"+
			"Our team will contact you on %s shortly.",
		rec.Reference,
		rec.Summary,
		formatKES(rec.Total),
		FormatPhoneNumber(w.Draft().Contact.Phone),
	)
	b.sendMessage(tgbotapi.NewMessage(chatID, text))

	b.notifyAdmins(ctx, *rec)
	b.renderStage(ctx, chatID, w)
}

// renderStage sends the message and keyboard for the wizard's current
// stage, with the progress header and running total on top.
func (b *Bot) renderStage(ctx context.Context, chatID int64, w *wizard.Wizard) {
	switch w.Stage() {
	case wizard.StageAccount:
		if w.Role() == "" {
			msg := tgbotapi.NewMessage(chatID, "👋 Welcome to Clean Cloak!\n\nHow can we help you today?")
			msg.ReplyMarkup = b.createRoleKeyboard()
			b.sendMessage(msg)
			return
		}
		msg := tgbotapi.NewMessage(chatID,
			"Let's get you set up. Share your contact, or type your name and number like:\n\nJane, 0712345678")
		msg.ReplyMarkup = b.createContactKeyboard()
		b.sendMessage(msg)
	case wizard.StageVehicle:
		b.renderServiceTypeStage(chatID, w)
	case wizard.StagePackage:
		b.renderDetailsStage(chatID, w)
	case wizard.StageExtras:
		msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+
			"✨ Add-ons (optional)\n\nTap to add or remove, then continue.")
		msg.ReplyMarkup = b.createExtrasKeyboard(w)
		b.sendMessage(msg)
	case wizard.StageSchedule:
		b.renderScheduleStage(chatID, w)
	case wizard.StageReview:
		b.renderReviewStage(chatID, w)
	}
}

func (b *Bot) renderServiceTypeStage(chatID int64, w *wizard.Wizard) {
	d := w.Draft()
	if d.ServiceCategory == "" {
		msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+"What do you need cleaned?")
		msg.ReplyMarkup = b.createServiceCategoryKeyboard()
		b.sendMessage(msg)
		return
	}

	if d.ServiceCategory == catalog.CategoryCarDetailing {
		msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+"🚗 What vehicle do you have?")
		msg.ReplyMarkup = b.createVehicleKeyboard(w)
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+"🏠 What kind of cleaning do you need?")
	msg.ReplyMarkup = b.createCleaningCategoryKeyboard(w)
	b.sendMessage(msg)
}

func (b *Bot) renderDetailsStage(chatID int64, w *wizard.Wizard) {
	if w.Draft().ServiceCategory == catalog.CategoryHomeCleaning {
		msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+"Pick your cleaning details:")
		msg.ReplyMarkup = b.createHouseCleaningKeyboard(w)
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+"🧼 Choose a service package:")
	msg.ReplyMarkup = b.createPackageKeyboard(w)
	b.sendMessage(msg)
}

func (b *Bot) renderScheduleStage(chatID int64, w *wizard.Wizard) {
	d := w.Draft()
	if !d.Location.IsSet() {
		msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+
			"📍 Where should we come?\n\nShare your location or type your address.")
		msg.ReplyMarkup = b.createLocationKeyboard()
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+
		fmt.Sprintf("📍 %s\n\nWhen should we come?", displayAddress(d.Location)))
	msg.ReplyMarkup = b.createScheduleKeyboard(w)
	b.sendMessage(msg)
}

func (b *Bot) renderReviewStage(chatID int64, w *wizard.Wizard) {
	msg := tgbotapi.NewMessage(chatID, b.stageHeader(w)+b.formatReview(w))
	msg.ReplyMarkup = b.createReviewKeyboard(w)
	b.sendMessage(msg)
}
