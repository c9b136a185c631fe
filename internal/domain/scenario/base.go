package scenario

// BaseType classifies a theater basing location.
type BaseType string

const (
	BaseAir    BaseType = "AIR"
	BasePort   BaseType = "PORT"
	BaseGround BaseType = "GROUND"
)

// TheaterBase is a basing location seeded from the reference catalog.
// Missions launch from and recover to bases of matching affiliation.
type TheaterBase struct {
	ID          string
	ScenarioID  string
	Name        string
	ICAO        string
	Country     string
	BaseType    BaseType
	Affiliation string
	Lat         float64
	Lon         float64
}
