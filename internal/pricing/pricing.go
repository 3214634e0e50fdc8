package pricing

import (
	"errors"
	"sort"

	"cleancloak-bot/internal/catalog"
)

// ErrBelowMinimumUnits marks a fleet selection under the package minimum.
// The wizard gate turns it into a user-facing rejection; the running-total
// display ignores it and shows a zero base contribution.
var ErrBelowMinimumUnits = errors.New("fleet car count below package minimum")

// Selection is the priced part of a booking draft. It is plain data so the
// engine stays a pure function over it.
type Selection struct {
	ServiceCategory catalog.ServiceCategory `json:"serviceCategory"`

	// Car detailing.
	Vehicle    catalog.VehicleType  `json:"vehicleType,omitempty"`
	Package    catalog.PackageID    `json:"carServicePackage,omitempty"`
	PaintStage catalog.PaintStageID `json:"paintCorrectionStage,omitempty"`
	Tier       catalog.Tier         `json:"midSUVPricingTier,omitempty"`
	FleetCount int                  `json:"fleetCarCount,omitempty"`
	Extras     []catalog.ExtraID    `json:"selectedCarExtras,omitempty"`

	// Home cleaning.
	Cleaning CleaningSelection `json:"cleaning,omitempty"`
}

type CleaningSelection struct {
	Category       catalog.CleaningCategoryID `json:"category,omitempty"`
	HouseType      catalog.HouseCleaningType  `json:"houseCleaningType,omitempty"`
	FumigationType catalog.FumigationType     `json:"fumigationType,omitempty"`
	RoomSize       catalog.RoomSize           `json:"roomSize,omitempty"`
	Bathroom       BathroomItems              `json:"bathroomItems,omitempty"`
	Windows        WindowCount                `json:"windowCount,omitempty"`
}

type BathroomItems struct {
	General bool `json:"general"`
	Sink    bool `json:"sink"`
	Toilet  bool `json:"toilet"`
}

type WindowCount struct {
	Small      int  `json:"small"`
	Large      int  `json:"large"`
	WholeHouse bool `json:"wholeHouse"`
}

// Breakdown is the engine output in KES whole shillings.
type Breakdown struct {
	Base        int
	ExtrasTotal int
	Total       int
}

// Quote computes the running total for a selection. It is deterministic and
// side-effect free: an incomplete selection prices its base contribution to
// zero so the total can be shown progressively while the user picks.
func Quote(c *catalog.Catalog, sel Selection) (Breakdown, error) {
	var b Breakdown
	var err error

	switch sel.ServiceCategory {
	case catalog.CategoryCarDetailing:
		b.Base, err = carBase(c, sel)
		b.ExtrasTotal = extrasTotal(c, sel.Extras)
	case catalog.CategoryHomeCleaning:
		b.Base = cleaningBase(c, sel.Cleaning)
	}

	b.Total = b.Base + b.ExtrasTotal
	return b, err
}

// HasExtra reports whether the selection includes the extra.
func (s Selection) HasExtra(id catalog.ExtraID) bool {
	for _, e := range s.Extras {
		if e == id {
			return true
		}
	}
	return false
}

// WithExtra returns a copy with the extra toggled on. Adding an extra twice
// is a no-op; the extras list stays sorted so equal selections compare equal.
func (s Selection) WithExtra(id catalog.ExtraID) Selection {
	if s.HasExtra(id) {
		return s
	}
	extras := make([]catalog.ExtraID, 0, len(s.Extras)+1)
	extras = append(extras, s.Extras...)
	extras = append(extras, id)
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	s.Extras = extras
	return s
}

// WithoutExtra returns a copy with the extra removed.
func (s Selection) WithoutExtra(id catalog.ExtraID) Selection {
	extras := make([]catalog.ExtraID, 0, len(s.Extras))
	for _, e := range s.Extras {
		if e != id {
			extras = append(extras, e)
		}
	}
	s.Extras = extras
	return s
}

func carBase(c *catalog.Catalog, sel Selection) (int, error) {
	if sel.Vehicle == "" || sel.Package == "" {
		return 0, nil
	}

	pkg, ok := c.Package(sel.Package)
	if !ok {
		return 0, nil
	}

	// A stage-graduated package without its stage is an incomplete
	// selection, not a zero-stage price.
	if pkg.RequiresStage && sel.PaintStage == "" {
		return 0, nil
	}

	rule, ok := c.PriceRuleFor(sel.Vehicle, sel.Package, sel.PaintStage)
	if !ok {
		return 0, nil
	}
	base := rule.ForTier(sel.Tier)

	if pkg.RequiresCarCount {
		if sel.FleetCount < pkg.MinCarCount {
			return 0, ErrBelowMinimumUnits
		}
		base *= sel.FleetCount
	}

	return base, nil
}

func extrasTotal(c *catalog.Catalog, extras []catalog.ExtraID) int {
	total := 0
	for _, id := range extras {
		if extra, ok := c.Extra(id); ok {
			total += extra.Price
		}
	}
	return total
}

func cleaningBase(c *catalog.Catalog, sel CleaningSelection) int {
	switch sel.Category {
	case catalog.CleaningHouse:
		switch sel.HouseType {
		case catalog.HouseBathroom:
			total := 0
			pricing := c.Bathroom()
			if sel.Bathroom.General {
				total += pricing.General
			}
			if sel.Bathroom.Sink {
				total += pricing.Sink
			}
			if sel.Bathroom.Toilet {
				total += pricing.Toilet
			}
			return total
		case catalog.HouseWindow:
			pricing := c.Window()
			if sel.Windows.WholeHouse {
				return pricing.WholeHouse
			}
			return sel.Windows.Small*pricing.Small + sel.Windows.Large*pricing.Large
		case catalog.HouseRoom:
			price, _ := c.RoomPrice(sel.RoomSize)
			return price
		}
	case catalog.CleaningFumigation:
		if sel.FumigationType == "" {
			return 0
		}
		price, _ := c.FumigationPrice(sel.FumigationType, sel.RoomSize)
		return price
	case catalog.CleaningMoveInOut:
		price, _ := c.MoveInOutPrice(sel.RoomSize)
		return price
	case catalog.CleaningPostConstruction:
		price, _ := c.PostConstructionPrice(sel.RoomSize)
		return price
	}
	return 0
}
