package bot

// ADMIN NOTIFICATIONS

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cleancloak-bot/internal/booking"
)

func FormatBookingNotification(rec booking.Receipt) string {
	return fmt.Sprintf(
		"🧽 New booking %s\n\n"+
			"Service: %s\n"+
			"Category: %s\n"+
			"Total: KES %s\n"+
			"Created: %s",
		rec.Reference,
		rec.Summary,
		rec.ServiceCategory,
		formatKES(rec.Total),
		rec.CreatedAt.Format("02 Jan 2006 15:04"),
	)
}

// notifyAdmins fans a confirmed booking out to the admin chat, the channel,
// and each configured admin with the Excel report attached. Failures are
// logged and skipped; the customer's booking is already confirmed.
func (b *Bot) notifyAdmins(ctx context.Context, rec booking.Receipt) {
	text := FormatBookingNotification(rec)

	if b.cfg.Admin.ChannelID != 0 {
		msg := tgbotapi.NewMessage(b.cfg.Admin.ChannelID, text)
		if _, err := b.bot.Send(msg); err != nil {
			b.logger.Error("Failed to send channel notification",
				zap.String("reference", rec.Reference),
				zap.Error(err))
		}
	}

	if b.cfg.Admin.ChatID != 0 {
		msg := tgbotapi.NewMessage(b.cfg.Admin.ChatID, text)
		if _, err := b.bot.Send(msg); err != nil {
			b.logger.Error("Failed to send admin chat notification",
				zap.String("reference", rec.Reference),
				zap.Error(err))
		}
	}

	var reportPath string
	if b.storage != nil {
		path, err := b.storage.ExportBookingToExcel(ctx, rec)
		if err != nil {
			b.logger.Error("Excel report failed",
				zap.String("reference", rec.Reference),
				zap.Error(err))
		} else {
			reportPath = path
		}
	}

	for _, adminID := range b.cfg.Admin.IDs {
		msg := tgbotapi.NewMessage(adminID, text)
		if _, err := b.bot.Send(msg); err != nil {
			b.logger.Error("Failed to notify admin",
				zap.Int64("admin_id", adminID),
				zap.Error(err))
			continue
		}
		if reportPath != "" {
			doc := tgbotapi.NewDocument(adminID, tgbotapi.FilePath(reportPath))
			doc.Caption = "Booking " + rec.Reference
			if _, err := b.bot.Send(doc); err != nil {
				b.logger.Error("Failed to send booking report",
					zap.Int64("admin_id", adminID),
					zap.Error(err))
			}
		}
	}
}
