package catalog

// Home cleaning reference data. Structurally simpler than the car side:
// every price resolves from a selection tuple, there is no extras stage.

type CleaningCategoryID string

const (
	CleaningHouse            CleaningCategoryID = "HOUSE_CLEANING"
	CleaningFumigation       CleaningCategoryID = "FUMIGATION"
	CleaningMoveInOut        CleaningCategoryID = "MOVE_IN_OUT"
	CleaningPostConstruction CleaningCategoryID = "POST_CONSTRUCTION"
)

type HouseCleaningType string

const (
	HouseBathroom HouseCleaningType = "BATHROOM"
	HouseWindow   HouseCleaningType = "WINDOW"
	HouseRoom     HouseCleaningType = "ROOM"
)

type FumigationType string

const (
	FumigationGeneral FumigationType = "GENERAL"
	FumigationBedBug  FumigationType = "BED_BUG"
)

type RoomSize string

const (
	RoomStudio RoomSize = "STUDIO"
	Room1Bed   RoomSize = "1BED"
	Room2Bed   RoomSize = "2BED"
	Room3Bed   RoomSize = "3BED"
	Room4Bed   RoomSize = "4BED"
	Room5Bed   RoomSize = "5BED"
)

type CleaningCategory struct {
	ID          CleaningCategoryID
	Name        string
	Description string
	Icon        string
}

type BathroomPricing struct {
	General int
	Sink    int
	Toilet  int
}

type WindowPricing struct {
	Small      int
	Large      int
	WholeHouse int
}

type cleaningTables struct {
	categories []CleaningCategory
	roomSizes  []RoomSize

	bathroom         BathroomPricing
	window           WindowPricing
	room             map[RoomSize]int
	fumigation       map[FumigationType]map[RoomSize]int
	moveInOut        map[RoomSize]int
	postConstruction map[RoomSize]int
}

func defaultCleaningTables() cleaningTables {
	return cleaningTables{
		categories: []CleaningCategory{
			{ID: CleaningHouse, Name: "House Cleaning", Description: "Bathroom and window cleaning services", Icon: "🏠"},
			{ID: CleaningFumigation, Name: "Fumigation", Description: "Pest control and bed bug removal", Icon: "🦟"},
			{ID: CleaningMoveInOut, Name: "Move In/Out Cleaning", Description: "Deep cleaning for moving days", Icon: "📦"},
			{ID: CleaningPostConstruction, Name: "Post Construction", Description: "Heavy duty cleaning after renovation", Icon: "🏗"},
		},
		roomSizes: []RoomSize{RoomStudio, Room1Bed, Room2Bed, Room3Bed, Room4Bed, Room5Bed},
		bathroom:  BathroomPricing{General: 3500, Sink: 800, Toilet: 2000},
		window:    WindowPricing{Small: 500, Large: 800, WholeHouse: 10000},
		room: map[RoomSize]int{
			RoomStudio: 5000, Room1Bed: 6500, Room2Bed: 9000,
			Room3Bed: 12000, Room4Bed: 15000, Room5Bed: 18000,
		},
		fumigation: map[FumigationType]map[RoomSize]int{
			FumigationGeneral: {
				RoomStudio: 3500, Room1Bed: 4500, Room2Bed: 5500,
				Room3Bed: 7000, Room4Bed: 8500, Room5Bed: 10000,
			},
			FumigationBedBug: {
				RoomStudio: 4000, Room1Bed: 5000, Room2Bed: 6000,
				Room3Bed: 7000, Room4Bed: 8000, Room5Bed: 9000,
			},
		},
		moveInOut: map[RoomSize]int{
			RoomStudio: 5000, Room1Bed: 8000, Room2Bed: 11000,
			Room3Bed: 14000, Room4Bed: 17000, Room5Bed: 20000,
		},
		postConstruction: map[RoomSize]int{
			RoomStudio: 10000, Room1Bed: 20000, Room2Bed: 30000,
			Room3Bed: 40000, Room4Bed: 50000, Room5Bed: 60000,
		},
	}
}

func (c *Catalog) CleaningCategories() []CleaningCategory { return c.cleaning.categories }
func (c *Catalog) RoomSizes() []RoomSize                  { return c.cleaning.roomSizes }
func (c *Catalog) Bathroom() BathroomPricing              { return c.cleaning.bathroom }
func (c *Catalog) Window() WindowPricing                  { return c.cleaning.window }

func (c *Catalog) CleaningCategory(id CleaningCategoryID) (CleaningCategory, bool) {
	for _, cat := range c.cleaning.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return CleaningCategory{}, false
}

func (c *Catalog) RoomPrice(size RoomSize) (int, bool) {
	price, ok := c.cleaning.room[size]
	return price, ok
}

func (c *Catalog) FumigationPrice(t FumigationType, size RoomSize) (int, bool) {
	table, ok := c.cleaning.fumigation[t]
	if !ok {
		return 0, false
	}
	price, ok := table[size]
	return price, ok
}

func (c *Catalog) MoveInOutPrice(size RoomSize) (int, bool) {
	price, ok := c.cleaning.moveInOut[size]
	return price, ok
}

func (c *Catalog) PostConstructionPrice(size RoomSize) (int, bool) {
	price, ok := c.cleaning.postConstruction[size]
	return price, ok
}
