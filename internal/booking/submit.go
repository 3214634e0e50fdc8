package booking

// BOOKING SUBMISSION

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/pricing"
	"cleancloak-bot/internal/session"
	"cleancloak-bot/internal/wizard"
	"cleancloak-bot/pkg/api"
)

// BookingAPI is the backend surface the submitter needs.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req api.BookingRequest) (*api.Booking, error)
}

// Receipt is what the bot renders back to the user after a successful
// submission, and what the storage layer mirrors for the admin surface.
type Receipt struct {
	ChatID          int64
	Reference       string
	ServiceCategory catalog.ServiceCategory
	Summary         string
	Total           int
	CreatedAt       time.Time
}

// BuildRequest maps a completed draft onto the backend payload. Pure, so it
// is testable without a wizard or a network.
func BuildRequest(d wizard.Draft, total int) api.BookingRequest {
	req := api.BookingRequest{
		Contact: api.Contact{
			Name:  d.Contact.Name,
			Phone: d.Contact.Phone,
		},
		ServiceCategory: string(d.ServiceCategory),
		Location: api.Location{
			Address:       d.Location.Address,
			ManualAddress: d.Location.ManualAddress,
			Coordinates:   d.Location.Coordinates,
		},
		BookingType:   string(d.BookingType),
		ScheduledDate: d.ScheduledDate,
		ScheduledTime: d.ScheduledTime,
		PaymentMethod: d.PaymentMethod,
		Price:         total,
		PaymentStatus: "pending",
	}
	if req.Contact.Name == "" {
		req.Contact.Name = "Clean Cloak Client"
	}

	switch d.ServiceCategory {
	case catalog.CategoryCarDetailing:
		req.VehicleType = string(d.Vehicle)
		req.ServicePackage = string(d.Package)
		if d.Package == catalog.PackagePaintCorrection {
			req.PaintStage = string(d.PaintStage)
		}
		if d.Vehicle == catalog.VehicleMidSUV {
			tier := d.Tier
			if tier == "" {
				tier = catalog.TierStandard
			}
			req.PricingTier = string(tier)
		}
		if d.Package == catalog.PackageFleet {
			req.FleetCarCount = d.FleetCount
		}
		for _, e := range d.Extras {
			req.Extras = append(req.Extras, string(e))
		}
	case catalog.CategoryHomeCleaning:
		sel := d.Cleaning
		req.CleaningCategory = string(sel.Category)
		req.RoomSize = string(sel.RoomSize)
		if sel.Category == catalog.CleaningHouse {
			req.HouseCleaningType = string(sel.HouseType)
			switch sel.HouseType {
			case catalog.HouseBathroom:
				req.BathroomItems = &api.BathroomItems{
					General: sel.Bathroom.General,
					Sink:    sel.Bathroom.Sink,
					Toilet:  sel.Bathroom.Toilet,
				}
			case catalog.HouseWindow:
				req.WindowCount = &api.WindowCount{
					Small:      sel.Windows.Small,
					Large:      sel.Windows.Large,
					WholeHouse: sel.Windows.WholeHouse,
				}
			}
		}
		if sel.Category == catalog.CleaningFumigation {
			req.FumigationType = string(sel.FumigationType)
		}
	}

	return req
}

// Store mirrors accepted bookings for the admin surface. Optional.
type Store interface {
	SaveBooking(ctx context.Context, rec Receipt) error
}

// Submitter drives one submission attempt end to end: lock the wizard,
// price, post, mirror, reset. The wizard lock makes concurrent attempts for
// the same chat impossible.
type Submitter struct {
	cat      *catalog.Catalog
	client   BookingAPI
	sessions session.Provider
	store    Store
	logger   *zap.Logger
}

func NewSubmitter(cat *catalog.Catalog, client BookingAPI, sessions session.Provider, store Store, logger *zap.Logger) *Submitter {
	return &Submitter{
		cat:      cat,
		client:   client,
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// Submit sends the wizard's draft to the backend. On failure the draft is
// left intact and the wizard unlocked so the user can retry explicitly; no
// automatic retries happen for booking creation.
func (s *Submitter) Submit(ctx context.Context, chatID int64, w *wizard.Wizard) (*Receipt, error) {
	if err := w.BeginSubmit(); err != nil {
		return nil, err
	}
	defer w.EndSubmit()

	draft := w.Draft()
	quote, err := pricing.Quote(s.cat, draft.Selection)
	if err != nil {
		return nil, fmt.Errorf("price draft: %w", err)
	}

	req := BuildRequest(draft, quote.Total)
	created, err := s.client.CreateBooking(ctx, req)
	if err != nil {
		s.logger.Error("booking submission failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return nil, err
	}

	rec := &Receipt{
		ChatID:          chatID,
		Reference:       created.Reference,
		ServiceCategory: draft.ServiceCategory,
		Summary:         Summary(s.cat, draft),
		Total:           quote.Total,
		CreatedAt:       time.Now(),
	}

	if err := s.sessions.Save(ctx, chatID, session.Session{
		UserType:     string(w.Role()),
		Name:         draft.Contact.Name,
		Phone:        draft.Contact.Phone,
		LastSignedIn: time.Now(),
	}); err != nil {
		s.logger.Warn("session save after booking", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	if s.store != nil {
		if err := s.store.SaveBooking(ctx, *rec); err != nil {
			// The backend already accepted the booking; the mirror is
			// best effort.
			s.logger.Warn("booking mirror failed",
				zap.String("reference", rec.Reference),
				zap.Error(err),
			)
		}
	}

	w.Reset()

	s.logger.Info("booking submitted",
		zap.Int64("chat_id", chatID),
		zap.String("reference", rec.Reference),
		zap.Int("total", rec.Total),
	)
	return rec, nil
}

// Summary renders a one-line human description of the booked service.
func Summary(c *catalog.Catalog, d wizard.Draft) string {
	switch d.ServiceCategory {
	case catalog.CategoryCarDetailing:
		pkg, ok := c.Package(d.Package)
		if !ok {
			return "Car Detailing"
		}
		v, _ := c.Vehicle(d.Vehicle)
		desc := fmt.Sprintf("%s (%s)", pkg.Name, v.Name)
		if stage, ok := c.PaintStage(d.PaintStage); ok && pkg.RequiresStage {
			desc = fmt.Sprintf("%s, %s", desc, stage.Name)
		}
		if pkg.RequiresCarCount && d.FleetCount > 0 {
			desc = fmt.Sprintf("%s, %d cars", desc, d.FleetCount)
		}
		return desc
	case catalog.CategoryHomeCleaning:
		cat, ok := c.CleaningCategory(d.Cleaning.Category)
		if !ok {
			return "Home Cleaning"
		}
		if d.Cleaning.RoomSize != "" {
			return fmt.Sprintf("%s (%s)", cat.Name, d.Cleaning.RoomSize)
		}
		return cat.Name
	}
	return "Booking"
}
