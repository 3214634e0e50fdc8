package pricing

import (
	"errors"
	"testing"

	"cleancloak-bot/internal/catalog"
)

func quote(t *testing.T, sel Selection) Breakdown {
	t.Helper()
	b, err := Quote(catalog.Default(), sel)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	return b
}

func TestFlatPackagePricing(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         catalog.VehicleSedan,
		Package:         catalog.PackageNormalDetail,
	}
	if got := quote(t, sel); got.Base != 7000 || got.Total != 7000 {
		t.Fatalf("breakdown = %+v, want base and total 7000", got)
	}
}

func TestTieredPricing(t *testing.T) {
	cases := []struct {
		name    string
		vehicle catalog.VehicleType
		tier    catalog.Tier
		want    int
	}{
		{"mid-suv standard", catalog.VehicleMidSUV, catalog.TierStandard, 7500},
		{"mid-suv premium", catalog.VehicleMidSUV, catalog.TierPremium, 8000},
		{"double-cab premium", catalog.VehicleSUVDoubleCab, catalog.TierPremium, 8500},
		// A sedan has no tiers; a leftover premium tier must not change
		// its flat price.
		{"sedan ignores tier", catalog.VehicleSedan, catalog.TierPremium, 7000},
		{"empty tier falls back to standard", catalog.VehicleMidSUV, "", 7500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := Selection{
				ServiceCategory: catalog.CategoryCarDetailing,
				Vehicle:         tc.vehicle,
				Package:         catalog.PackageNormalDetail,
				Tier:            tc.tier,
			}
			if got := quote(t, sel).Total; got != tc.want {
				t.Fatalf("total = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPaintCorrectionStageReplacesBase(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         catalog.VehicleMidSUV,
		Package:         catalog.PackagePaintCorrection,
	}

	// No stage chosen yet: the package alone contributes nothing.
	if got := quote(t, sel).Total; got != 0 {
		t.Fatalf("total without a stage = %d, want 0", got)
	}

	sel.PaintStage = catalog.PaintStage1
	if got := quote(t, sel).Total; got != 6000 {
		t.Fatalf("stage 1 total = %d, want 6000", got)
	}
	sel.PaintStage = catalog.PaintStage3
	if got := quote(t, sel).Total; got != 8000 {
		t.Fatalf("stage 3 total = %d, want 8000", got)
	}
}

func TestFleetPricing(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         catalog.VehicleSedan,
		Package:         catalog.PackageFleet,
		FleetCount:      6,
	}
	if got := quote(t, sel).Total; got != 21000 {
		t.Fatalf("total = %d, want 6 x 3500 = 21000", got)
	}

	sel.FleetCount = 4
	b, err := Quote(catalog.Default(), sel)
	if !errors.Is(err, ErrBelowMinimumUnits) {
		t.Fatalf("err = %v, want ErrBelowMinimumUnits", err)
	}
	if b.Total != 0 {
		t.Fatalf("below-minimum total = %d, want 0", b.Total)
	}
}

func TestExtrasAreAdditive(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         catalog.VehicleSedan,
		Package:         catalog.PackageFullDetail,
		Extras:          []catalog.ExtraID{"de-greasing", "window-polishing"},
	}
	got := quote(t, sel)
	if got.Base != 13000 {
		t.Fatalf("base = %d, want 13000", got.Base)
	}
	if got.ExtrasTotal != 7000 {
		t.Fatalf("extras = %d, want 2000 + 5000", got.ExtrasTotal)
	}
	if got.Total != 20000 {
		t.Fatalf("total = %d, want 20000", got.Total)
	}
}

func TestExtrasWithoutBase(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Extras:          []catalog.ExtraID{"rust-removal"},
	}
	got := quote(t, sel)
	if got.Base != 0 || got.Total != 2000 {
		t.Fatalf("breakdown = %+v, want base 0 total 2000", got)
	}
}

func TestUnknownIDsContributeNothing(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         "TRUCK",
		Package:         catalog.PackageNormalDetail,
		Extras:          []catalog.ExtraID{"ceramic-coating"},
	}
	if got := quote(t, sel).Total; got != 0 {
		t.Fatalf("total = %d, want 0 for unknown ids", got)
	}
}

func TestHomeCleaningPricing(t *testing.T) {
	cases := []struct {
		name string
		sel  CleaningSelection
		want int
	}{
		{
			"bathroom general plus toilet",
			CleaningSelection{
				Category:  catalog.CleaningHouse,
				HouseType: catalog.HouseBathroom,
				Bathroom:  BathroomItems{General: true, Toilet: true},
			},
			5500,
		},
		{
			"window counts",
			CleaningSelection{
				Category:  catalog.CleaningHouse,
				HouseType: catalog.HouseWindow,
				Windows:   WindowCount{Small: 4, Large: 2},
			},
			3600,
		},
		{
			"whole house windows override counts",
			CleaningSelection{
				Category:  catalog.CleaningHouse,
				HouseType: catalog.HouseWindow,
				Windows:   WindowCount{Small: 4, WholeHouse: true},
			},
			10000,
		},
		{
			"room deep clean",
			CleaningSelection{
				Category:  catalog.CleaningHouse,
				HouseType: catalog.HouseRoom,
				RoomSize:  catalog.Room2Bed,
			},
			9000,
		},
		{
			"bed bug fumigation",
			CleaningSelection{
				Category:       catalog.CleaningFumigation,
				FumigationType: catalog.FumigationBedBug,
				RoomSize:       catalog.Room3Bed,
			},
			7000,
		},
		{
			"move in out",
			CleaningSelection{
				Category: catalog.CleaningMoveInOut,
				RoomSize: catalog.RoomStudio,
			},
			5000,
		},
		{
			"post construction",
			CleaningSelection{
				Category: catalog.CleaningPostConstruction,
				RoomSize: catalog.Room5Bed,
			},
			60000,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := Selection{
				ServiceCategory: catalog.CategoryHomeCleaning,
				Cleaning:        tc.sel,
			}
			if got := quote(t, sel).Total; got != tc.want {
				t.Fatalf("total = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestQuoteIsDeterministic(t *testing.T) {
	sel := Selection{
		ServiceCategory: catalog.CategoryCarDetailing,
		Vehicle:         catalog.VehicleSUVDoubleCab,
		Package:         catalog.PackagePaintCorrection,
		PaintStage:      catalog.PaintStage2,
		Tier:            catalog.TierPremium,
		Extras:          []catalog.ExtraID{"rust-removal", "de-greasing"},
	}
	first := quote(t, sel)
	second := quote(t, sel)
	if first != second {
		t.Fatalf("repeated quotes differ: %+v vs %+v", first, second)
	}
}

func TestWithExtraIsIdempotentAndSorted(t *testing.T) {
	sel := Selection{}
	sel = sel.WithExtra("window-polishing")
	sel = sel.WithExtra("de-greasing")
	sel = sel.WithExtra("de-greasing")

	if len(sel.Extras) != 2 {
		t.Fatalf("extras = %v, want 2 distinct entries", sel.Extras)
	}
	if sel.Extras[0] != "de-greasing" || sel.Extras[1] != "window-polishing" {
		t.Fatalf("extras not sorted: %v", sel.Extras)
	}
	if !sel.HasExtra("de-greasing") {
		t.Fatal("HasExtra missed a present id")
	}

	sel = sel.WithoutExtra("de-greasing")
	if sel.HasExtra("de-greasing") || len(sel.Extras) != 1 {
		t.Fatalf("WithoutExtra left %v", sel.Extras)
	}
}
