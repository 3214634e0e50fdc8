package bot

// BOT COMMANDS

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cleancloak-bot/internal/session"
	"cleancloak-bot/internal/wizard"
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "help":
		b.handleHelp(chatID)
	case "signout":
		b.handleSignOut(ctx, chatID)
	case "recent":
		b.handleRecent(ctx, chatID, args)
	case "export":
		b.handleExport(ctx, chatID)
	default:
		b.sendMessage(tgbotapi.NewMessage(chatID, "Unknown command. Try /help."))
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	// A fresh /start always begins a new draft; the stored session only
	// decides whether the account stage is skipped.
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Warn("State clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	w := wizard.New(b.cat)
	if sess, err := b.sessions.Load(ctx, chatID); err == nil && sess.UserType == string(wizard.UserClient) {
		w.PreSeed(sess.Name, sess.Phone)
		name := sess.Name
		if name == "" {
			name = "there"
		}
		b.sendMessage(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Welcome back, %s! Let's get you booked in. 🧽", name)))
	} else if err != nil && !errors.Is(err, session.ErrNotFound) {
		b.logger.Error("Session load failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	b.saveWizard(ctx, chatID, w)
	b.renderStage(ctx, chatID, w)
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Warn("State clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID,
		"Booking cancelled. Send /start when you're ready for a clean."))
}

func (b *Bot) handleSignOut(ctx context.Context, chatID int64) {
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.logger.Warn("Session clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Warn("State clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, "You're signed out. Send /start to begin again."))
}

func (b *Bot) handleHelp(chatID int64) {
	help := "🧽 Clean Cloak, mobile car detailing and home cleaning in Nairobi.\n\n" +
		"/start – book a cleaning\n" +
		"/cancel – drop the current booking\n" +
		"/signout – forget my saved details\n" +
		"/help – this message\n\n" +
		"Use the Back button on any step to change earlier answers."
	b.sendMessage(tgbotapi.NewMessage(chatID, help))
}

func (b *Bot) handleRecent(ctx context.Context, chatID int64, args string) {
	if !b.isAdmin(chatID) {
		b.sendMessage(tgbotapi.NewMessage(chatID, "Unknown command. Try /help."))
		return
	}
	if b.storage == nil {
		b.sendError(chatID, "Booking mirror is not configured")
		return
	}

	limit := 10
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		limit = n
	}

	bookings, err := b.storage.RecentBookings(ctx, limit)
	if err != nil {
		b.logger.Error("Recent bookings query failed", zap.Error(err))
		b.sendError(chatID, "Could not fetch recent bookings")
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "No bookings yet."))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗂 Last %d bookings:\n\n", len(bookings)))
	for _, bk := range bookings {
		sb.WriteString(fmt.Sprintf("%s · %s · KES %s · %s\n",
			bk.Reference,
			bk.Summary,
			formatKES(bk.TotalPrice),
			bk.CreatedAt.Format("02 Jan 15:04")))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		b.sendMessage(tgbotapi.NewMessage(chatID, "Unknown command. Try /help."))
		return
	}
	if b.storage == nil {
		b.sendError(chatID, "Booking mirror is not configured")
		return
	}

	filepath := "reports/bookings.xlsx"
	if err := b.storage.ExportAllBookingsToExcel(ctx, filepath); err != nil {
		b.logger.Error("Excel export failed", zap.Error(err))
		b.sendError(chatID, "Export failed")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	doc.Caption = "All mirrored bookings"
	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send export",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
