package wizard

import (
	"errors"
	"fmt"

	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/pricing"
)

// ErrSubmissionInFlight rejects draft mutation and navigation while a
// booking submission is running, so an in-flight payload can never change
// underneath the request.
var ErrSubmissionInFlight = errors.New("booking submission in flight")

// GateError is a local, recoverable validation failure: the transition is
// blocked and the message shown inline. It never reaches the network layer.
type GateError struct {
	Stage   StageID
	Field   string
	Message string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Message)
}

type UserType string

const (
	UserClient  UserType = "client"
	UserCleaner UserType = "cleaner"
)

// State is the serializable snapshot of one wizard. The bot layer persists
// it per chat between updates.
type State struct {
	Step       int      `json:"step"`
	Role       UserType `json:"role,omitempty"`
	Draft      Draft    `json:"draft"`
	Submitting bool     `json:"submitting,omitempty"`
}

// Wizard owns the step counter and the draft, and gates every transition.
// It is a plain state machine: no storage, no transport, no ambient session
// lookup. The host injects identity via PreSeed and persists State itself.
type Wizard struct {
	cat *catalog.Catalog
	st  State
}

func New(cat *catalog.Catalog) *Wizard {
	return &Wizard{cat: cat, st: State{Draft: emptyDraft()}}
}

// Restore rebuilds a wizard from a persisted snapshot.
func Restore(cat *catalog.Catalog, st State) *Wizard {
	return &Wizard{cat: cat, st: st}
}

func (w *Wizard) State() State { return w.st }
func (w *Wizard) Draft() Draft { return w.st.Draft }
func (w *Wizard) Step() int    { return w.st.Step }
func (w *Wizard) Role() UserType {
	return w.st.Role
}

// PreSeed fills identity from a stored session and skips the account stage.
// Used for returning clients.
func (w *Wizard) PreSeed(name, phone string) {
	w.st.Role = UserClient
	w.st.Draft.Contact = Contact{Name: name, Phone: phone}
	w.st.Step = stepForStage(w.ActiveStages(), StageVehicle)
}

// ActiveStages is the ordered stage list with the extras stage dropped when
// the selected service category has none.
func (w *Wizard) ActiveStages() []StageDefinition {
	return activeStages(w.cat, w.st.Draft.ServiceCategory)
}

// Stage derives the current abstract stage from the raw step.
func (w *Wizard) Stage() StageID {
	return stageForStep(w.ActiveStages(), w.st.Step)
}

// StageIndex is the current position in the active stage list.
func (w *Wizard) StageIndex() int {
	return stageIndex(w.ActiveStages(), w.Stage())
}

// Progress is a 0-100 percentage over the active stage list.
func (w *Wizard) Progress() int {
	active := w.ActiveStages()
	if len(active) <= 1 {
		return 0
	}
	p := w.StageIndex() * 100 / (len(active) - 1)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// OnCredentials reports whether the account stage is showing its second
// sub-screen.
func (w *Wizard) OnCredentials() bool {
	return w.st.Step == 1
}

// Quote prices the current draft. Pure; safe to call on every mutation.
func (w *Wizard) Quote() pricing.Breakdown {
	b, _ := pricing.Quote(w.cat, w.st.Draft.Selection)
	return b
}

// --- selection handlers -------------------------------------------------
//
// Selection is deliberately separated from advancement: these only mutate
// the draft, AdvanceIfComplete/Next decide whether the step moves.

func (w *Wizard) SelectRole(role UserType) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Role = role
	if role == UserClient {
		w.st.Step = 1
	}
	return nil
}

func (w *Wizard) SetContact(name, phone string) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Contact = Contact{Name: name, Phone: phone}
	return nil
}

func (w *Wizard) SelectServiceCategory(cat catalog.ServiceCategory) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	if cat == w.st.Draft.ServiceCategory {
		return nil
	}
	// Switching category invalidates every service-specific choice.
	contact := w.st.Draft.Contact
	loc := w.st.Draft.Location
	draft := emptyDraft()
	draft.Contact = contact
	draft.Location = loc
	draft.ServiceCategory = cat
	w.st.Draft = draft
	return nil
}

func (w *Wizard) SelectVehicle(v catalog.VehicleType) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	if _, ok := w.cat.Vehicle(v); !ok {
		return fmt.Errorf("unknown vehicle type %q", v)
	}
	w.st.Draft.Vehicle = v
	// A tier chosen for the previous vehicle only survives if the new
	// vehicle defines tiered pricing at all.
	if !w.cat.TierApplies(v) {
		w.st.Draft.Tier = catalog.TierStandard
	}
	return nil
}

func (w *Wizard) SelectTier(t catalog.Tier) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Tier = t
	return nil
}

func (w *Wizard) SelectPackage(id catalog.PackageID) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	pkg, ok := w.cat.Package(id)
	if !ok {
		return fmt.Errorf("unknown service package %q", id)
	}
	w.st.Draft.Package = id
	// Sub-selections from a previously chosen package must never leak
	// into pricing for this one.
	if !pkg.RequiresStage {
		w.st.Draft.PaintStage = ""
	}
	if pkg.RequiresCarCount {
		if w.st.Draft.FleetCount < pkg.MinCarCount {
			w.st.Draft.FleetCount = pkg.DefaultCarCount
		}
	} else {
		w.st.Draft.FleetCount = 0
	}
	return nil
}

func (w *Wizard) SelectPaintStage(id catalog.PaintStageID) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	pkg, ok := w.cat.Package(w.st.Draft.Package)
	if !ok || !pkg.RequiresStage {
		return fmt.Errorf("package %q does not take a correction stage", w.st.Draft.Package)
	}
	if _, ok := w.cat.PaintStage(id); !ok {
		return fmt.Errorf("unknown correction stage %q", id)
	}
	w.st.Draft.PaintStage = id
	return nil
}

func (w *Wizard) SetFleetCount(n int) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	pkg, ok := w.cat.Package(w.st.Draft.Package)
	if !ok || !pkg.RequiresCarCount {
		return fmt.Errorf("package %q does not take a car count", w.st.Draft.Package)
	}
	if n < 1 {
		n = 1
	}
	w.st.Draft.FleetCount = n
	return nil
}

func (w *Wizard) ToggleExtra(id catalog.ExtraID) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	if _, ok := w.cat.Extra(id); !ok {
		return fmt.Errorf("unknown extra %q", id)
	}
	if w.st.Draft.HasExtra(id) {
		w.st.Draft.Selection = w.st.Draft.WithoutExtra(id)
	} else {
		w.st.Draft.Selection = w.st.Draft.WithExtra(id)
	}
	return nil
}

func (w *Wizard) SelectCleaningCategory(id catalog.CleaningCategoryID) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	if _, ok := w.cat.CleaningCategory(id); !ok {
		return fmt.Errorf("unknown cleaning category %q", id)
	}
	// Changing category resets every cleaning sub-selection.
	w.st.Draft.Cleaning = pricing.CleaningSelection{Category: id}
	return nil
}

func (w *Wizard) SelectHouseType(t catalog.HouseCleaningType) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Cleaning.HouseType = t
	return nil
}

func (w *Wizard) SelectFumigationType(t catalog.FumigationType) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Cleaning.FumigationType = t
	return nil
}

func (w *Wizard) SelectRoomSize(size catalog.RoomSize) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Cleaning.RoomSize = size
	return nil
}

func (w *Wizard) SetBathroomItems(items pricing.BathroomItems) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Cleaning.Bathroom = items
	return nil
}

func (w *Wizard) SetWindowCount(count pricing.WindowCount) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Cleaning.Windows = count
	return nil
}

func (w *Wizard) SetLocation(loc Location) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.Location = loc
	return nil
}

func (w *Wizard) SetBookingType(t BookingType) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.BookingType = t
	if t == BookingImmediate {
		w.st.Draft.ScheduledDate = ""
		w.st.Draft.ScheduledTime = ""
	}
	return nil
}

func (w *Wizard) SetSchedule(date, timeOfDay string) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	w.st.Draft.ScheduledDate = date
	w.st.Draft.ScheduledTime = timeOfDay
	return nil
}

// --- transitions --------------------------------------------------------

// CanAdvance checks the current stage's validation gate. nil means the
// forward transition is allowed.
func (w *Wizard) CanAdvance() *GateError {
	return w.gate(w.Stage())
}

// Next moves one step forward if the current stage's gate passes.
func (w *Wizard) Next() error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	if gateErr := w.CanAdvance(); gateErr != nil {
		return gateErr
	}
	if w.Stage() == StageReview {
		return nil
	}
	w.st.Step++
	return nil
}

// AdvanceIfComplete implements auto-advance: it moves forward only when the
// stage is complete and does not demand an explicit continue (packages with
// a sub-stage or car count always wait for one).
func (w *Wizard) AdvanceIfComplete() bool {
	if w.st.Submitting {
		return false
	}
	if w.requiresExplicitContinue() {
		return false
	}
	if w.CanAdvance() != nil {
		return false
	}
	if w.Stage() == StageReview {
		return false
	}
	w.st.Step++
	return true
}

func (w *Wizard) requiresExplicitContinue() bool {
	switch w.Stage() {
	case StageExtras, StageSchedule:
		// Toggling an extra or picking a slot must never whisk the user
		// forward; both stages allow revising a choice before Continue.
		return true
	case StagePackage:
		if w.st.Draft.ServiceCategory == catalog.CategoryHomeCleaning {
			return true
		}
		pkg, ok := w.cat.Package(w.st.Draft.Package)
		if !ok {
			return false
		}
		return pkg.RequiresStage || pkg.RequiresCarCount
	}
	return false
}

// Back moves one step backward. From the role screen it exits the wizard
// entirely (identity cleared); from the credentials screen it returns to
// role selection specifically, clearing the chosen role, which is not a
// plain decrement.
func (w *Wizard) Back() (exited bool, err error) {
	if err := w.checkUnlocked(); err != nil {
		return false, err
	}
	switch w.st.Step {
	case 0:
		w.st.Role = ""
		w.st.Draft = emptyDraft()
		return true, nil
	case 1:
		w.st.Role = ""
		w.st.Step = 0
		return false, nil
	default:
		w.st.Step--
		return false, nil
	}
}

// JumpTo moves directly to an earlier (or the current) stage. Forward skips
// past the current position are rejected.
func (w *Wizard) JumpTo(id StageID) error {
	if err := w.checkUnlocked(); err != nil {
		return err
	}
	active := w.ActiveStages()
	target := stageIndex(active, id)
	if id != StageAccount {
		found := false
		for _, def := range active {
			if def.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("stage %q not active", id)
		}
	}
	if target > w.StageIndex() {
		return fmt.Errorf("cannot jump forward to %q", id)
	}
	if id == StageAccount && w.st.Role != "" {
		w.st.Step = 1
		return nil
	}
	w.st.Step = stepForStage(active, id)
	return nil
}

// HandleExternalBack is the hook for the host shell's hardware/OS back
// signal. It consumes the signal while the wizard is past the account
// screens; otherwise the host's default navigation applies.
func (w *Wizard) HandleExternalBack() bool {
	if w.st.Submitting {
		return true
	}
	if w.st.Step <= 1 {
		return false
	}
	_, _ = w.Back()
	return true
}

// --- submission lock ----------------------------------------------------

// BeginSubmit locks the wizard for the duration of an outbound submission.
func (w *Wizard) BeginSubmit() error {
	if w.st.Submitting {
		return ErrSubmissionInFlight
	}
	if gateErr := w.gate(StageReview); gateErr != nil {
		return gateErr
	}
	w.st.Submitting = true
	return nil
}

func (w *Wizard) EndSubmit() {
	w.st.Submitting = false
}

// Reset discards the draft after a successful submission but keeps the
// signed-in identity, returning the user to the start of the booking flow.
func (w *Wizard) Reset() {
	contact := w.st.Draft.Contact
	w.st.Draft = emptyDraft()
	w.st.Draft.Contact = contact
	w.st.Submitting = false
	w.st.Step = stepForStage(w.ActiveStages(), StageVehicle)
}

func (w *Wizard) checkUnlocked() error {
	if w.st.Submitting {
		return ErrSubmissionInFlight
	}
	return nil
}

// --- validation gates ---------------------------------------------------

func (w *Wizard) gate(stage StageID) *GateError {
	d := w.st.Draft
	switch stage {
	case StageAccount:
		if w.st.Step == 0 && w.st.Role == "" {
			return &GateError{Stage: stage, Field: "role", Message: "Please choose how you want to use Clean Cloak"}
		}
		if d.Contact.Phone == "" {
			return &GateError{Stage: stage, Field: "phone", Message: "Please enter your phone number"}
		}
	case StageVehicle:
		if d.ServiceCategory == "" {
			return &GateError{Stage: stage, Field: "serviceCategory", Message: "Please select a service type"}
		}
		if d.ServiceCategory == catalog.CategoryCarDetailing && d.Vehicle == "" {
			return &GateError{Stage: stage, Field: "vehicleType", Message: "Please select a vehicle type"}
		}
		if d.ServiceCategory == catalog.CategoryHomeCleaning && d.Cleaning.Category == "" {
			return &GateError{Stage: stage, Field: "cleaningCategory", Message: "Please select a cleaning category"}
		}
	case StagePackage:
		return w.packageGate()
	case StageExtras:
		// Optional stage: always passable.
	case StageSchedule:
		if !d.Location.IsSet() {
			return &GateError{Stage: stage, Field: "location", Message: "Please share your location or enter an address"}
		}
		if d.BookingType == BookingScheduled && (d.ScheduledDate == "" || d.ScheduledTime == "") {
			return &GateError{Stage: stage, Field: "schedule", Message: "Please pick a date and time for your booking"}
		}
	case StageReview:
		// Submitting re-checks every earlier gate so a draft edited via a
		// backward jump cannot slip through incomplete.
		for _, prior := range []StageID{StageAccount, StageVehicle, StagePackage, StageSchedule} {
			if gateErr := w.gate(prior); gateErr != nil {
				return gateErr
			}
		}
	}
	return nil
}

func (w *Wizard) packageGate() *GateError {
	d := w.st.Draft
	if d.ServiceCategory == catalog.CategoryHomeCleaning {
		return w.cleaningGate()
	}
	if d.Package == "" {
		return &GateError{Stage: StagePackage, Field: "carServicePackage", Message: "Please select a service package"}
	}
	pkg, ok := w.cat.Package(d.Package)
	if !ok {
		return &GateError{Stage: StagePackage, Field: "carServicePackage", Message: "Please select a service package"}
	}
	if pkg.RequiresStage && d.PaintStage == "" {
		return &GateError{Stage: StagePackage, Field: "paintCorrectionStage", Message: "Please select a paint correction stage"}
	}
	if pkg.RequiresCarCount && d.FleetCount < pkg.MinCarCount {
		return &GateError{
			Stage: StagePackage, Field: "fleetCarCount",
			Message: fmt.Sprintf("Fleet bookings need at least %d cars", pkg.MinCarCount),
		}
	}
	return nil
}

func (w *Wizard) cleaningGate() *GateError {
	sel := w.st.Draft.Cleaning
	switch sel.Category {
	case catalog.CleaningHouse:
		switch sel.HouseType {
		case catalog.HouseBathroom:
			if !sel.Bathroom.General && !sel.Bathroom.Sink && !sel.Bathroom.Toilet {
				return &GateError{Stage: StagePackage, Field: "bathroomItems", Message: "Please select at least one item to clean"}
			}
		case catalog.HouseWindow:
			if !sel.Windows.WholeHouse && sel.Windows.Small == 0 && sel.Windows.Large == 0 {
				return &GateError{Stage: StagePackage, Field: "windowCount", Message: "Please enter how many windows to clean"}
			}
		case catalog.HouseRoom:
			if sel.RoomSize == "" {
				return &GateError{Stage: StagePackage, Field: "roomSize", Message: "Please select a room size"}
			}
		default:
			return &GateError{Stage: StagePackage, Field: "houseCleaningType", Message: "Please select a house cleaning service"}
		}
	case catalog.CleaningFumigation:
		if sel.FumigationType == "" {
			return &GateError{Stage: StagePackage, Field: "fumigationType", Message: "Please select a fumigation type"}
		}
		if sel.RoomSize == "" {
			return &GateError{Stage: StagePackage, Field: "roomSize", Message: "Please select a property size"}
		}
	case catalog.CleaningMoveInOut, catalog.CleaningPostConstruction:
		if sel.RoomSize == "" {
			return &GateError{Stage: StagePackage, Field: "roomSize", Message: "Please select a property size"}
		}
	default:
		return &GateError{Stage: StagePackage, Field: "cleaningCategory", Message: "Please select a cleaning category"}
	}
	return nil
}
