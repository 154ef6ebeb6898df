package db_models

// SavedTrip is a generated itinerary kept for later. Itinerary holds the
// normalized JSON document.
type SavedTrip struct {
	BaseModel
	Destination string `gorm:"type:varchar(255);not null;index"`
	StartDate   string `gorm:"type:varchar(10)"`
	EndDate     string `gorm:"type:varchar(10)"`
	Duration    int
	Itinerary   string `gorm:"type:jsonb;not null"`
}

func (SavedTrip) TableName() string { return "saved_trips" }
