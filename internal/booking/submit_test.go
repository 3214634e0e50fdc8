package booking

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/pricing"
	"cleancloak-bot/internal/session"
	"cleancloak-bot/internal/wizard"
	"cleancloak-bot/pkg/api"
)

type fakeAPI struct {
	called bool
	req    api.BookingRequest
	resp   *api.Booking
	err    error
}

func (f *fakeAPI) CreateBooking(_ context.Context, req api.BookingRequest) (*api.Booking, error) {
	f.called = true
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeSessions struct {
	saved map[int64]session.Session
}

func (f *fakeSessions) Load(context.Context, int64) (*session.Session, error) {
	return nil, session.ErrNotFound
}

func (f *fakeSessions) Save(_ context.Context, chatID int64, s session.Session) error {
	if f.saved == nil {
		f.saved = map[int64]session.Session{}
	}
	f.saved[chatID] = s
	return nil
}

func (f *fakeSessions) Clear(context.Context, int64) error { return nil }

func readyWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	w := wizard.New(catalog.Default())
	if err := w.SelectRole(wizard.UserClient); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if err := w.SetContact("Jane Wanjiku", "0712345678"); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("past account: %v", err)
	}
	if err := w.SelectServiceCategory(catalog.CategoryCarDetailing); err != nil {
		t.Fatalf("select category: %v", err)
	}
	if err := w.SelectVehicle(catalog.VehicleMidSUV); err != nil {
		t.Fatalf("select vehicle: %v", err)
	}
	if !w.AdvanceIfComplete() {
		t.Fatal("vehicle stage stuck")
	}
	if err := w.SelectTier(catalog.TierPremium); err != nil {
		t.Fatalf("select tier: %v", err)
	}
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.ToggleExtra("de-greasing"); err != nil {
		t.Fatalf("toggle extra: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to extras: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to schedule: %v", err)
	}
	if err := w.SetLocation(wizard.Location{ManualAddress: "Kilimani, Nairobi"}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to review: %v", err)
	}
	return w
}

func TestBuildRequestCarDetailing(t *testing.T) {
	w := readyWizard(t)

	req := BuildRequest(w.Draft(), 10000)
	if req.ServiceCategory != "car-detailing" {
		t.Fatalf("serviceCategory = %q", req.ServiceCategory)
	}
	if req.Contact.Name != "Jane Wanjiku" || req.Contact.Phone != "0712345678" {
		t.Fatalf("contact = %+v", req.Contact)
	}
	if req.VehicleType != "MID-SUV" || req.ServicePackage != "NORMAL-DETAIL" {
		t.Fatalf("vehicle/package = %q/%q", req.VehicleType, req.ServicePackage)
	}
	if req.PricingTier != "PREMIUM" {
		t.Fatalf("pricingTier = %q", req.PricingTier)
	}
	if len(req.Extras) != 1 || req.Extras[0] != "de-greasing" {
		t.Fatalf("extras = %v", req.Extras)
	}
	if req.Location.ManualAddress != "Kilimani, Nairobi" || req.Location.Address != "" {
		t.Fatalf("location = %+v", req.Location)
	}
	if req.Price != 10000 {
		t.Fatalf("price = %d", req.Price)
	}
	if req.PaymentStatus != "pending" {
		t.Fatalf("paymentStatus = %q", req.PaymentStatus)
	}
	if req.PaymentMethod != "mpesa" || req.BookingType != "immediate" {
		t.Fatalf("payment/bookingType = %q/%q", req.PaymentMethod, req.BookingType)
	}
}

func TestBuildRequestMidSUVAlwaysCarriesTier(t *testing.T) {
	var d wizard.Draft
	d.ServiceCategory = catalog.CategoryCarDetailing
	d.Vehicle = catalog.VehicleMidSUV
	d.Package = catalog.PackageNormalDetail
	req := BuildRequest(d, 7500)
	if req.PricingTier != "STANDARD" {
		t.Fatalf("pricingTier = %q, want STANDARD", req.PricingTier)
	}

	d.Vehicle = catalog.VehicleSedan
	if got := BuildRequest(d, 7000); got.PricingTier != "" {
		t.Fatalf("sedan pricingTier = %q, want empty", got.PricingTier)
	}
}

func TestBuildRequestHomeCleaning(t *testing.T) {
	var d wizard.Draft
	d.ServiceCategory = catalog.CategoryHomeCleaning
	d.Cleaning.Category = catalog.CleaningHouse
	d.Cleaning.HouseType = catalog.HouseBathroom
	d.Cleaning.Bathroom.General = true
	d.Cleaning.Bathroom.Toilet = true

	req := BuildRequest(d, 5500)
	if req.CleaningCategory != "HOUSE_CLEANING" || req.HouseCleaningType != "BATHROOM" {
		t.Fatalf("cleaning fields = %q/%q", req.CleaningCategory, req.HouseCleaningType)
	}
	if req.BathroomItems == nil || !req.BathroomItems.General || !req.BathroomItems.Toilet || req.BathroomItems.Sink {
		t.Fatalf("bathroomItems = %+v", req.BathroomItems)
	}
	if req.VehicleType != "" || req.WindowCount != nil || req.FumigationType != "" {
		t.Fatal("unrelated fields populated for bathroom cleaning")
	}

	d.Cleaning = pricing.CleaningSelection{
		Category:       catalog.CleaningFumigation,
		FumigationType: catalog.FumigationBedBug,
		RoomSize:       catalog.Room3Bed,
	}
	req = BuildRequest(d, 7000)
	if req.FumigationType != "BED_BUG" || req.RoomSize != "3BED" {
		t.Fatalf("fumigation fields = %q/%q", req.FumigationType, req.RoomSize)
	}
	if req.HouseCleaningType != "" || req.BathroomItems != nil {
		t.Fatal("house fields populated for fumigation")
	}
}

func TestBuildRequestDefaultsName(t *testing.T) {
	var d wizard.Draft
	d.Contact.Phone = "0712345678"
	req := BuildRequest(d, 0)
	if req.Contact.Name != "Clean Cloak Client" {
		t.Fatalf("name = %q, want fallback", req.Contact.Name)
	}
}

func TestSubmitSuccessResetsDraftAndSavesSession(t *testing.T) {
	w := readyWizard(t)
	client := &fakeAPI{resp: &api.Booking{Reference: "CC-1042", TotalPrice: 10000}}
	sessions := &fakeSessions{}
	sub := NewSubmitter(catalog.Default(), client, sessions, nil, zap.NewNop())

	rec, err := sub.Submit(context.Background(), 77, w)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Reference != "CC-1042" {
		t.Fatalf("reference = %q", rec.Reference)
	}
	// Premium mid-SUV normal detail plus de-greasing.
	if client.req.Price != 10000 {
		t.Fatalf("submitted price = %d, want 10000", client.req.Price)
	}

	if w.Draft().Package != "" || w.Draft().Vehicle != "" {
		t.Fatalf("draft not reset: %+v", w.Draft().Selection)
	}
	if w.Draft().Contact.Phone != "0712345678" {
		t.Fatal("identity lost on reset")
	}
	saved, ok := sessions.saved[77]
	if !ok || saved.Phone != "0712345678" {
		t.Fatalf("session not saved: %+v", sessions.saved)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	w := readyWizard(t)
	apiErr := &api.APIError{StatusCode: 502, Message: "upstream unavailable"}
	client := &fakeAPI{err: apiErr}
	sub := NewSubmitter(catalog.Default(), client, &fakeSessions{}, nil, zap.NewNop())

	_, err := sub.Submit(context.Background(), 77, w)
	var got *api.APIError
	if !errors.As(err, &got) || got.StatusCode != 502 {
		t.Fatalf("err = %v, want 502 APIError", err)
	}

	if w.Draft().Package != catalog.PackageNormalDetail {
		t.Fatal("draft lost on failed submission")
	}
	// Wizard must be unlocked again so the user can edit or retry.
	if err := w.SelectTier(catalog.TierStandard); err != nil {
		t.Fatalf("wizard still locked after failure: %v", err)
	}
}

func TestSubmitWithoutLocationNeverReachesAPI(t *testing.T) {
	w := wizard.New(catalog.Default())
	if err := w.SelectRole(wizard.UserClient); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if err := w.SetContact("Jane Wanjiku", "0712345678"); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("past account: %v", err)
	}
	if err := w.SelectServiceCategory(catalog.CategoryCarDetailing); err != nil {
		t.Fatalf("select category: %v", err)
	}
	if err := w.SelectVehicle(catalog.VehicleSedan); err != nil {
		t.Fatalf("select vehicle: %v", err)
	}
	if !w.AdvanceIfComplete() {
		t.Fatal("vehicle stage stuck")
	}
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}

	client := &fakeAPI{resp: &api.Booking{Reference: "CC-9"}}
	sub := NewSubmitter(catalog.Default(), client, &fakeSessions{}, nil, zap.NewNop())

	_, err := sub.Submit(context.Background(), 77, w)
	var gate *wizard.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("err = %v, want gate error", err)
	}
	if gate.Field != "location" {
		t.Fatalf("gate field = %q, want location", gate.Field)
	}
	if client.called {
		t.Fatal("incomplete booking reached the API")
	}
	// Wizard must be unlocked so the user can finish the draft.
	if err := w.SetLocation(wizard.Location{ManualAddress: "Lavington"}); err != nil {
		t.Fatalf("wizard still locked: %v", err)
	}
}

func TestSummary(t *testing.T) {
	w := readyWizard(t)
	got := Summary(catalog.Default(), w.Draft())
	if got == "" || got == "Booking" {
		t.Fatalf("summary = %q", got)
	}
}
