package wizard

import "cleancloak-bot/internal/catalog"

// StageID names one logical screen of the booking flow. The integer step is
// the primitive of record; stages are derived from it.
type StageID string

const (
	StageAccount  StageID = "account"
	StageVehicle  StageID = "vehicle"
	StagePackage  StageID = "package"
	StageExtras   StageID = "extras"
	StageSchedule StageID = "schedule"
	StageReview   StageID = "review"
)

type StageDefinition struct {
	ID       StageID
	Label    string
	Optional bool
}

// stageDefinitions is the full ordered stage table. The details label follows
// the chosen service category.
func stageDefinitions(category catalog.ServiceCategory) []StageDefinition {
	detailsLabel := "Vehicle & Package"
	if category == catalog.CategoryHomeCleaning {
		detailsLabel = "Cleaning Details"
	}
	return []StageDefinition{
		{ID: StageAccount, Label: "Account"},
		{ID: StageVehicle, Label: "Service Type"},
		{ID: StagePackage, Label: detailsLabel},
		{ID: StageExtras, Label: "Add-ons", Optional: true},
		{ID: StageSchedule, Label: "Schedule & Location"},
		{ID: StageReview, Label: "Review"},
	}
}

// activeStages drops the extras stage when the service category offers none.
func activeStages(c *catalog.Catalog, category catalog.ServiceCategory) []StageDefinition {
	defs := stageDefinitions(category)
	if c.HasExtras(category) {
		return defs
	}
	active := make([]StageDefinition, 0, len(defs)-1)
	for _, def := range defs {
		if def.ID == StageExtras {
			continue
		}
		active = append(active, def)
	}
	return active
}

// stageForStep maps the raw step counter onto the active stage list.
// Steps 0 and 1 are both the account stage (role screen, then credentials);
// every later stage takes exactly one step.
func stageForStep(active []StageDefinition, step int) StageID {
	if step <= 1 {
		return StageAccount
	}
	idx := step - 1
	if idx >= len(active) {
		idx = len(active) - 1
	}
	return active[idx].ID
}

// stepForStage returns the first step belonging to a stage.
func stepForStage(active []StageDefinition, id StageID) int {
	if id == StageAccount {
		return 0
	}
	for i, def := range active {
		if def.ID == id {
			return i + 1
		}
	}
	return 0
}

func stageIndex(active []StageDefinition, id StageID) int {
	for i, def := range active {
		if def.ID == id {
			return i
		}
	}
	return 0
}
