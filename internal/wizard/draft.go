package wizard

import "cleancloak-bot/internal/pricing"

type BookingType string

const (
	BookingImmediate BookingType = "immediate"
	BookingScheduled BookingType = "scheduled"
)

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Location is complete when any one of its three forms is present: a
// device-derived address, a manually entered address, or raw coordinates.
type Location struct {
	Address       string    `json:"address,omitempty"`
	ManualAddress string    `json:"manualAddress,omitempty"`
	Coordinates   []float64 `json:"coordinates,omitempty"` // [lat, lng]
}

func (l Location) IsSet() bool {
	return l.Address != "" || l.ManualAddress != "" || len(l.Coordinates) == 2
}

// Draft is the wizard's working state: created empty at wizard entry,
// mutated only by stage-selection handlers, discarded on submission or
// cancellation.
type Draft struct {
	pricing.Selection

	Contact       Contact     `json:"contact"`
	Location      Location    `json:"location"`
	BookingType   BookingType `json:"bookingType"`
	ScheduledDate string      `json:"scheduledDate,omitempty"`
	ScheduledTime string      `json:"scheduledTime,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
}

func emptyDraft() Draft {
	return Draft{
		BookingType:   BookingImmediate,
		PaymentMethod: "mpesa",
	}
}
