package catalog

// The rule catalog is static reference data: every selectable entry the
// booking flow offers, with its price rule carried as data. Identifiers are
// closed string types so an unknown id is a lookup miss, not a silent zero.

type ServiceCategory string

const (
	CategoryCarDetailing ServiceCategory = "car-detailing"
	CategoryHomeCleaning ServiceCategory = "home-cleaning"
)

type VehicleType string

const (
	VehicleSedan        VehicleType = "SEDAN"
	VehicleMidSUV       VehicleType = "MID-SUV"
	VehicleSUVDoubleCab VehicleType = "SUV-DOUBLE-CAB"
)

type PackageID string

const (
	PackageNormalDetail     PackageID = "NORMAL-DETAIL"
	PackageInteriorSteaming PackageID = "INTERIOR-STEAMING"
	PackagePaintCorrection  PackageID = "PAINT-CORRECTION"
	PackageFullDetail       PackageID = "FULL-DETAIL"
	PackageFleet            PackageID = "FLEET-PACKAGE"
)

type PaintStageID string

const (
	PaintStage1 PaintStageID = "STAGE-1"
	PaintStage2 PaintStageID = "STAGE-2"
	PaintStage3 PaintStageID = "STAGE-3"
)

type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierPremium  Tier = "PREMIUM"
)

type ExtraID string

type VehicleCategory struct {
	ID          VehicleType
	Name        string
	Description string
	Icon        string
}

type ServicePackage struct {
	ID          PackageID
	Name        string
	Description string
	Duration    string

	// RequiresStage packages price by graduated stage instead of a base price.
	RequiresStage bool
	// RequiresCarCount packages price per car with a minimum fleet size.
	RequiresCarCount bool
	MinCarCount      int
	DefaultCarCount  int
}

type PaintStage struct {
	ID          PaintStageID
	Name        string
	Description string
}

type Extra struct {
	ID          ExtraID
	Name        string
	Description string
	Price       int
	Icon        string
}

// PriceRule is either a flat price or a per-tier table for one vehicle type.
type PriceRule struct {
	Flat    int
	PerTier map[Tier]int
}

// ForTier resolves the rule for a tier. Vehicle types without tiered pricing
// ignore the tier; a tier the rule does not define falls back to STANDARD.
func (r PriceRule) ForTier(t Tier) int {
	if r.PerTier == nil {
		return r.Flat
	}
	if t == "" {
		t = TierStandard
	}
	if price, ok := r.PerTier[t]; ok {
		return price
	}
	return r.PerTier[TierStandard]
}

// Tiered reports whether this rule distinguishes pricing tiers.
func (r PriceRule) Tiered() bool {
	return r.PerTier != nil
}

type Catalog struct {
	vehicles    []VehicleCategory
	packages    []ServicePackage
	paintStages []PaintStage
	extras      []Extra

	// price matrix keyed by package id, with paint correction expanded to
	// one key per stage ("PAINT-CORRECTION-STAGE-1" etc).
	carPricing map[string]map[VehicleType]PriceRule

	cleaning cleaningTables
}

// Default returns the production rule catalog.
func Default() *Catalog {
	return &Catalog{
		vehicles: []VehicleCategory{
			{ID: VehicleSedan, Name: "Sedan", Description: "Standard sedan vehicles", Icon: "🚗"},
			{ID: VehicleMidSUV, Name: "Mid-SUV", Description: "Medium-sized SUVs", Icon: "🚙"},
			{ID: VehicleSUVDoubleCab, Name: "SUV / Double Cab", Description: "Large SUVs and double cab pickups", Icon: "🚐"},
		},
		packages: []ServicePackage{
			{
				ID:          PackageNormalDetail,
				Name:        "Normal Detail",
				Description: "Restore show-room look of the car",
				Duration:    "2-3 hours",
			},
			{
				ID:          PackageInteriorSteaming,
				Name:        "Interior Steaming",
				Description: "Sanitation, deep cleaning and removal of stains & odours from the car",
				Duration:    "2-3 hours",
			},
			{
				ID:            PackagePaintCorrection,
				Name:          "Paint Correction",
				Description:   "Restoring your car's shine",
				Duration:      "3-5 hours",
				RequiresStage: true,
			},
			{
				ID:          PackageFullDetail,
				Name:        "Full Detail",
				Description: "Complete detailing package - interior, exterior, and protection",
				Duration:    "4-6 hours",
			},
			{
				ID:               PackageFleet,
				Name:             "Fleet Package",
				Description:      "Deep cleaning for 5 or more cars at a go",
				Duration:         "Varies by fleet size",
				RequiresCarCount: true,
				MinCarCount:      5,
				DefaultCarCount:  5,
			},
		},
		paintStages: []PaintStage{
			{ID: PaintStage1, Name: "Stage 1", Description: "Light paint correction - removes minor swirls and scratches"},
			{ID: PaintStage2, Name: "Stage 2", Description: "Medium paint correction - removes moderate imperfections"},
			{ID: PaintStage3, Name: "Stage 3", Description: "Heavy paint correction - removes deep scratches and oxidation"},
		},
		extras: []Extra{
			{ID: "plastic-restoration", Name: "Plastic Restoration", Description: "Restore faded plastic trim and bumpers", Price: 2000, Icon: "🔧"},
			{ID: "rust-removal", Name: "Rust Removal", Description: "Remove rust spots and prevent further corrosion", Price: 2000, Icon: "🛠"},
			{ID: "de-greasing", Name: "De-Greasing", Description: "Deep engine bay and undercarriage degreasing", Price: 2000, Icon: "💧"},
			{ID: "brown-stain-removal", Name: "Brown Stain Removal", Description: "Remove stubborn brown stains from seats and carpets", Price: 2000, Icon: "🧽"},
			{ID: "window-polishing", Name: "Window Polishing", Description: "Professional window cleaning and polishing", Price: 5000, Icon: "🪟"},
		},
		carPricing: map[string]map[VehicleType]PriceRule{
			"NORMAL-DETAIL": {
				VehicleSedan:        {Flat: 7000},
				VehicleMidSUV:       {PerTier: map[Tier]int{TierStandard: 7500, TierPremium: 8000}},
				VehicleSUVDoubleCab: {PerTier: map[Tier]int{TierStandard: 8000, TierPremium: 8500}},
			},
			"INTERIOR-STEAMING": {
				VehicleSedan:        {Flat: 4400},
				VehicleMidSUV:       {Flat: 5300},
				VehicleSUVDoubleCab: {Flat: 6200},
			},
			"PAINT-CORRECTION-STAGE-1": {
				VehicleSedan:        {Flat: 5000},
				VehicleMidSUV:       {Flat: 6000},
				VehicleSUVDoubleCab: {Flat: 7000},
			},
			"PAINT-CORRECTION-STAGE-2": {
				VehicleSedan:        {Flat: 6000},
				VehicleMidSUV:       {Flat: 7000},
				VehicleSUVDoubleCab: {Flat: 8000},
			},
			"PAINT-CORRECTION-STAGE-3": {
				VehicleSedan:        {Flat: 7000},
				VehicleMidSUV:       {Flat: 8000},
				VehicleSUVDoubleCab: {Flat: 9000},
			},
			"FULL-DETAIL": {
				VehicleSedan:        {Flat: 13000},
				VehicleMidSUV:       {Flat: 14000},
				VehicleSUVDoubleCab: {Flat: 15000},
			},
			// Per car.
			"FLEET-PACKAGE": {
				VehicleSedan:        {Flat: 3500},
				VehicleMidSUV:       {Flat: 3800},
				VehicleSUVDoubleCab: {Flat: 4000},
			},
		},
		cleaning: defaultCleaningTables(),
	}
}

func (c *Catalog) Vehicles() []VehicleCategory { return c.vehicles }
func (c *Catalog) Packages() []ServicePackage  { return c.packages }
func (c *Catalog) PaintStages() []PaintStage   { return c.paintStages }
func (c *Catalog) Extras() []Extra             { return c.extras }

func (c *Catalog) Vehicle(id VehicleType) (VehicleCategory, bool) {
	for _, v := range c.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return VehicleCategory{}, false
}

func (c *Catalog) Package(id PackageID) (ServicePackage, bool) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}
	return ServicePackage{}, false
}

func (c *Catalog) PaintStage(id PaintStageID) (PaintStage, bool) {
	for _, s := range c.paintStages {
		if s.ID == id {
			return s, true
		}
	}
	return PaintStage{}, false
}

func (c *Catalog) Extra(id ExtraID) (Extra, bool) {
	for _, e := range c.extras {
		if e.ID == id {
			return e, true
		}
	}
	return Extra{}, false
}

// HasExtras reports whether a service category offers an add-on stage.
// Only car detailing carries extras.
func (c *Catalog) HasExtras(category ServiceCategory) bool {
	return category == CategoryCarDetailing && len(c.extras) > 0
}

// PriceRuleFor resolves the matrix rule for a package (with its paint stage
// expansion) and vehicle type.
func (c *Catalog) PriceRuleFor(v VehicleType, p PackageID, stage PaintStageID) (PriceRule, bool) {
	key := string(p)
	if p == PackagePaintCorrection {
		if stage == "" {
			return PriceRule{}, false
		}
		key = string(p) + "-" + string(stage)
	}
	byVehicle, ok := c.carPricing[key]
	if !ok {
		return PriceRule{}, false
	}
	rule, ok := byVehicle[v]
	return rule, ok
}

// TierApplies reports whether any price rule distinguishes tiers for the
// vehicle type. Used to drop a stale tier selection when the vehicle changes.
func (c *Catalog) TierApplies(v VehicleType) bool {
	for _, byVehicle := range c.carPricing {
		if rule, ok := byVehicle[v]; ok && rule.Tiered() {
			return true
		}
	}
	return false
}
