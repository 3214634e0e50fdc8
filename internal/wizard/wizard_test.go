package wizard

import (
	"errors"
	"testing"

	"cleancloak-bot/internal/catalog"
)

func signedInWizard(t *testing.T) *Wizard {
	t.Helper()
	w := New(catalog.Default())
	if err := w.SelectRole(UserClient); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if err := w.SetContact("Jane Wanjiku", "0712345678"); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("advance past account: %v", err)
	}
	return w
}

func TestAutoAdvanceOnCompleteStage(t *testing.T) {
	w := signedInWizard(t)
	if w.Stage() != StageVehicle {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageVehicle)
	}

	if err := w.SelectServiceCategory(catalog.CategoryCarDetailing); err != nil {
		t.Fatalf("select category: %v", err)
	}
	if w.AdvanceIfComplete() {
		t.Fatal("advanced with no vehicle selected")
	}

	if err := w.SelectVehicle(catalog.VehicleSedan); err != nil {
		t.Fatalf("select vehicle: %v", err)
	}
	if !w.AdvanceIfComplete() {
		t.Fatal("complete vehicle stage did not auto-advance")
	}
	if w.Stage() != StagePackage {
		t.Fatalf("stage = %s, want %s", w.Stage(), StagePackage)
	}
}

func TestNoAutoAdvanceWhenPackageNeedsSubSelection(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)

	if err := w.SelectPackage(catalog.PackagePaintCorrection); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if w.AdvanceIfComplete() {
		t.Fatal("advanced before a correction stage was chosen")
	}
	if gate := w.CanAdvance(); gate == nil || gate.Field != "paintCorrectionStage" {
		t.Fatalf("gate = %+v, want paintCorrectionStage gate", gate)
	}

	if err := w.SelectPaintStage(catalog.PaintStage2); err != nil {
		t.Fatalf("select paint stage: %v", err)
	}
	// Stage requirement satisfied, but the package still waits for an
	// explicit continue rather than jumping away mid-choice.
	if w.AdvanceIfComplete() {
		t.Fatal("auto-advanced a stage that requires explicit continue")
	}
	if err := w.Next(); err != nil {
		t.Fatalf("explicit continue: %v", err)
	}
	if w.Stage() != StageExtras {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageExtras)
	}
}

func TestExtrasStageWaitsForExplicitContinue(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to extras: %v", err)
	}

	if err := w.ToggleExtra("de-greasing"); err != nil {
		t.Fatalf("toggle extra: %v", err)
	}
	// The stage stays put so the user can keep toggling before Continue.
	if w.AdvanceIfComplete() {
		t.Fatal("auto-advanced off the extras stage after a toggle")
	}
	if w.Stage() != StageExtras {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageExtras)
	}
	if err := w.ToggleExtra("rust-removal"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("explicit continue: %v", err)
	}
	if w.Stage() != StageSchedule {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageSchedule)
	}
}

func TestScheduleStageWaitsForExplicitContinue(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to extras: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to schedule: %v", err)
	}

	if err := w.SetLocation(Location{ManualAddress: "Karen, Nairobi"}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	if w.AdvanceIfComplete() {
		t.Fatal("auto-advanced off the schedule stage")
	}
	if w.Stage() != StageSchedule {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageSchedule)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("explicit continue: %v", err)
	}
	if w.Stage() != StageReview {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageReview)
	}
}

func TestFleetMinimumGatesAdvance(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)

	if err := w.SelectPackage(catalog.PackageFleet); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if w.Draft().FleetCount != 5 {
		t.Fatalf("fleet count defaulted to %d, want 5", w.Draft().FleetCount)
	}

	if err := w.SetFleetCount(3); err != nil {
		t.Fatalf("set fleet count: %v", err)
	}
	gate := w.CanAdvance()
	if gate == nil || gate.Field != "fleetCarCount" {
		t.Fatalf("gate = %+v, want fleetCarCount gate", gate)
	}
	if err := w.Next(); err == nil {
		t.Fatal("Next succeeded below the fleet minimum")
	}

	if err := w.SetFleetCount(6); err != nil {
		t.Fatalf("set fleet count: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next above the minimum: %v", err)
	}
}

func TestSwitchingPackageResetsSubSelections(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)

	if err := w.SelectPackage(catalog.PackagePaintCorrection); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.SelectPaintStage(catalog.PaintStage3); err != nil {
		t.Fatalf("select paint stage: %v", err)
	}

	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("switch package: %v", err)
	}
	if w.Draft().PaintStage != "" {
		t.Fatalf("stale paint stage %q survived the package switch", w.Draft().PaintStage)
	}
	if w.Draft().FleetCount != 0 {
		t.Fatalf("fleet count = %d on a non-fleet package", w.Draft().FleetCount)
	}
}

func TestVehicleChangeFallsBackToStandardTier(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleMidSUV)

	if err := w.SelectTier(catalog.TierPremium); err != nil {
		t.Fatalf("select tier: %v", err)
	}
	if err := w.SelectVehicle(catalog.VehicleSedan); err != nil {
		t.Fatalf("switch vehicle: %v", err)
	}
	if w.Draft().Tier != catalog.TierStandard {
		t.Fatalf("tier = %q after switching to an untiered vehicle, want STANDARD", w.Draft().Tier)
	}
}

func TestBackSemanticsAtAccountScreens(t *testing.T) {
	w := New(catalog.Default())

	if exited, _ := w.Back(); !exited {
		t.Fatal("back on the role screen should exit the wizard")
	}

	if err := w.SelectRole(UserClient); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if !w.OnCredentials() {
		t.Fatal("choosing the client role should open the credentials screen")
	}
	exited, err := w.Back()
	if err != nil || exited {
		t.Fatalf("back from credentials: exited=%v err=%v", exited, err)
	}
	if w.Step() != 0 || w.Role() != "" {
		t.Fatalf("step=%d role=%q, want role screen with role cleared", w.Step(), w.Role())
	}
}

func TestBackThenForwardKeepsDraft(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleMidSUV)
	if err := w.SelectTier(catalog.TierPremium); err != nil {
		t.Fatalf("select tier: %v", err)
	}
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}

	want := w.Draft()
	if _, err := w.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if w.Stage() != StageVehicle {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageVehicle)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("forward again: %v", err)
	}
	got := w.Draft()
	if got.Vehicle != want.Vehicle || got.Package != want.Package || got.Tier != want.Tier {
		t.Fatalf("draft changed across back/forward: got %+v want %+v", got.Selection, want.Selection)
	}
}

func TestJumpOnlyBackward(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)

	if err := w.JumpTo(StageSchedule); err == nil {
		t.Fatal("forward jump past the current stage was allowed")
	}
	if err := w.JumpTo(StageVehicle); err != nil {
		t.Fatalf("jump to current stage: %v", err)
	}
	if err := w.JumpTo(StageAccount); err != nil {
		t.Fatalf("jump to account: %v", err)
	}
	if !w.OnCredentials() {
		t.Fatal("account jump with a signed-in role should land on credentials")
	}
}

func TestExternalBackHandledOnlyInsideFlow(t *testing.T) {
	w := New(catalog.Default())
	if w.HandleExternalBack() {
		t.Fatal("role screen should defer to the host's back handling")
	}
	if err := w.SelectRole(UserClient); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if w.HandleExternalBack() {
		t.Fatal("credentials screen should defer to the host's back handling")
	}

	w = signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if !w.HandleExternalBack() {
		t.Fatal("external back inside the flow should be consumed")
	}
	if w.Stage() != StageVehicle {
		t.Fatalf("stage = %s after external back, want %s", w.Stage(), StageVehicle)
	}
}

func TestExtrasStageDroppedForHomeCleaning(t *testing.T) {
	w := signedInWizard(t)
	if err := w.SelectServiceCategory(catalog.CategoryHomeCleaning); err != nil {
		t.Fatalf("select category: %v", err)
	}
	for _, def := range w.ActiveStages() {
		if def.ID == StageExtras {
			t.Fatal("extras stage active for home cleaning")
		}
	}
	if err := w.SelectCleaningCategory(catalog.CleaningMoveInOut); err != nil {
		t.Fatalf("select cleaning category: %v", err)
	}
	if !w.AdvanceIfComplete() {
		t.Fatal("complete service-type stage did not auto-advance")
	}
	if err := w.SelectRoomSize(catalog.Room1Bed); err != nil {
		t.Fatalf("select room size: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("continue past cleaning details: %v", err)
	}
	if w.Stage() != StageSchedule {
		t.Fatalf("stage = %s, want %s (extras skipped)", w.Stage(), StageSchedule)
	}
}

func TestScheduleGateIsLocal(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to extras: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to schedule: %v", err)
	}

	gate := w.CanAdvance()
	if gate == nil || gate.Field != "location" {
		t.Fatalf("gate = %+v, want location gate", gate)
	}

	if err := w.SetLocation(Location{ManualAddress: "Westlands, Nairobi"}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	if err := w.SetBookingType(BookingScheduled); err != nil {
		t.Fatalf("set booking type: %v", err)
	}
	gate = w.CanAdvance()
	if gate == nil || gate.Field != "schedule" {
		t.Fatalf("gate = %+v, want schedule gate", gate)
	}
	var asGate *GateError
	if err := w.Next(); !errors.As(err, &asGate) {
		t.Fatalf("Next error = %v, want *GateError", err)
	}

	if err := w.SetSchedule("2026-09-05", "10:00"); err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	if w.Stage() != StageReview {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageReview)
	}
}

func TestSubmissionLocksMutationAndBack(t *testing.T) {
	w := reviewReadyWizard(t)

	if err := w.BeginSubmit(); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if err := w.BeginSubmit(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("second BeginSubmit = %v, want ErrSubmissionInFlight", err)
	}
	if err := w.SelectVehicle(catalog.VehicleMidSUV); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("mutation while submitting = %v, want ErrSubmissionInFlight", err)
	}
	if _, err := w.Back(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("back while submitting = %v, want ErrSubmissionInFlight", err)
	}
	if !w.HandleExternalBack() {
		t.Fatal("external back must be swallowed while submitting")
	}
	if w.Stage() != StageReview {
		t.Fatal("external back moved the wizard during submission")
	}

	w.EndSubmit()
	if err := w.SelectVehicle(catalog.VehicleMidSUV); err != nil {
		t.Fatalf("mutation after EndSubmit: %v", err)
	}
}

func TestResetKeepsIdentity(t *testing.T) {
	w := reviewReadyWizard(t)
	w.Reset()

	if w.Draft().Contact.Phone != "0712345678" {
		t.Fatalf("contact lost on reset: %+v", w.Draft().Contact)
	}
	if w.Draft().Vehicle != "" || w.Draft().Package != "" {
		t.Fatalf("service selections survived reset: %+v", w.Draft().Selection)
	}
	if w.Stage() != StageVehicle {
		t.Fatalf("stage = %s after reset, want %s", w.Stage(), StageVehicle)
	}
}

func TestPreSeedSkipsAccountStage(t *testing.T) {
	w := New(catalog.Default())
	w.PreSeed("Jane Wanjiku", "0712345678")

	if w.Stage() != StageVehicle {
		t.Fatalf("stage = %s, want %s", w.Stage(), StageVehicle)
	}
	if w.Role() != UserClient {
		t.Fatalf("role = %q, want client", w.Role())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)

	restored := Restore(catalog.Default(), w.State())
	if restored.Stage() != w.Stage() {
		t.Fatalf("restored stage %s != %s", restored.Stage(), w.Stage())
	}
	if restored.Draft().Vehicle != catalog.VehicleSedan {
		t.Fatalf("restored vehicle = %q", restored.Draft().Vehicle)
	}
}

func TestRunningTotalTracksDraft(t *testing.T) {
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if got := w.Quote().Total; got != 7000 {
		t.Fatalf("total = %d, want 7000", got)
	}
	if err := w.ToggleExtra("plastic-restoration"); err != nil {
		t.Fatalf("toggle extra: %v", err)
	}
	if got := w.Quote().Total; got != 9000 {
		t.Fatalf("total with extra = %d, want 9000", got)
	}
}

func mustSelectVehicle(t *testing.T, w *Wizard, v catalog.VehicleType) {
	t.Helper()
	if err := w.SelectServiceCategory(catalog.CategoryCarDetailing); err != nil {
		t.Fatalf("select category: %v", err)
	}
	if err := w.SelectVehicle(v); err != nil {
		t.Fatalf("select vehicle: %v", err)
	}
	if !w.AdvanceIfComplete() {
		t.Fatalf("vehicle stage did not advance")
	}
}

func reviewReadyWizard(t *testing.T) *Wizard {
	t.Helper()
	w := signedInWizard(t)
	mustSelectVehicle(t, w, catalog.VehicleSedan)
	if err := w.SelectPackage(catalog.PackageNormalDetail); err != nil {
		t.Fatalf("select package: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to extras: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to schedule: %v", err)
	}
	if err := w.SetLocation(Location{Coordinates: []float64{-1.2921, 36.8219}}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("to review: %v", err)
	}
	return w
}
