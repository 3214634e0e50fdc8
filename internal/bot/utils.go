package bot

import (
	"fmt"
	"strconv"
	"strings"

	"cleancloak-bot/internal/booking"
	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/wizard"
)

// formatKES renders whole shillings with thousands separators: 13500 ->
// "13,500".
func formatKES(amount int) string {
	s := strconv.Itoa(amount)
	if amount < 0 {
		s = s[1:]
	}
	var out strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(digit)
	}
	if amount < 0 {
		return "-" + out.String()
	}
	return out.String()
}

func displayAddress(loc wizard.Location) string {
	if loc.ManualAddress != "" {
		return loc.ManualAddress
	}
	if loc.Address != "" {
		return loc.Address
	}
	if len(loc.Coordinates) == 2 {
		return fmt.Sprintf("%.5f, %.5f", loc.Coordinates[0], loc.Coordinates[1])
	}
	return "No location set"
}

// stageHeader is the progress line shown above every stage message, with
// the running total once anything is priced.
func (b *Bot) stageHeader(w *wizard.Wizard) string {
	active := w.ActiveStages()
	idx := w.StageIndex()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Step %d of %d · %s (%d%%)\n",
		idx+1, len(active), active[idx].Label, w.Progress()))

	if total := w.Quote().Total; total > 0 {
		sb.WriteString(fmt.Sprintf("💰 Running total: KES %s\n", formatKES(total)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (b *Bot) formatReview(w *wizard.Wizard) string {
	d := w.Draft()
	quote := w.Quote()

	var sb strings.Builder
	sb.WriteString("📋 Review your booking\n\n")
	sb.WriteString(fmt.Sprintf("Service: %s\n", booking.Summary(b.cat, d)))

	if d.ServiceCategory == catalog.CategoryCarDetailing && len(d.Extras) > 0 {
		sb.WriteString("Add-ons:\n")
		for _, id := range d.Extras {
			if e, ok := b.cat.Extra(id); ok {
				sb.WriteString(fmt.Sprintf("  • %s (KES %s)\n", e.Name, formatKES(e.Price)))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("Location: %s\n", displayAddress(d.Location)))
	if d.BookingType == wizard.BookingScheduled {
		sb.WriteString(fmt.Sprintf("When: %s at %s\n", d.ScheduledDate, d.ScheduledTime))
	} else {
		sb.WriteString("When: As soon as possible\n")
	}
	sb.WriteString(fmt.Sprintf("Contact: %s\n", FormatPhoneNumber(d.Contact.Phone)))
	sb.WriteString(fmt.Sprintf("Payment: %s\n", strings.ToUpper(d.PaymentMethod)))

	sb.WriteString("\n")
	if quote.ExtrasTotal > 0 {
		sb.WriteString(fmt.Sprintf("Base: KES %s\n", formatKES(quote.Base)))
		sb.WriteString(fmt.Sprintf("Add-ons: KES %s\n", formatKES(quote.ExtrasTotal)))
	}
	sb.WriteString(fmt.Sprintf("💰 Total: KES %s", formatKES(quote.Total)))
	return sb.String()
}
