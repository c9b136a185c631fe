package generator

import (
	"strings"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// Reference data is scenario independent. The bases, constellation and
// ORBAT steps stamp these templates into scenario-scoped rows, so
// regeneration always starts from the same world.

type baseTemplate struct {
	name        string
	icao        string
	country     string
	baseType    scenario.BaseType
	affiliation string
	lat         float64
	lon         float64
}

var theaterBaseCatalog = map[string][]baseTemplate{
	"WESTPAC": {
		{"Kadena AB", "RODN", "Japan", scenario.BaseAir, "FRIENDLY", 26.3558, 127.7678},
		{"Andersen AFB", "PGUA", "Guam", scenario.BaseAir, "FRIENDLY", 13.5840, 144.9305},
		{"Misawa AB", "RJSM", "Japan", scenario.BaseAir, "FRIENDLY", 40.7032, 141.3686},
		{"MCAS Iwakuni", "RJOI", "Japan", scenario.BaseAir, "FRIENDLY", 34.1439, 132.2358},
		{"Osan AB", "RKSO", "South Korea", scenario.BaseAir, "FRIENDLY", 37.0906, 127.0296},
		{"Yokosuka Naval Base", "", "Japan", scenario.BasePort, "FRIENDLY", 35.2932, 139.6672},
		{"Apra Harbor", "", "Guam", scenario.BasePort, "FRIENDLY", 13.4443, 144.6566},
		{"Shuimen AB", "", "Adversary", scenario.BaseAir, "HOSTILE", 27.3064, 120.0814},
		{"Longtian AB", "", "Adversary", scenario.BaseAir, "HOSTILE", 25.5791, 119.4617},
		{"Ningbo Naval Base", "", "Adversary", scenario.BasePort, "HOSTILE", 29.9333, 121.7167},
	},
	"EUROPE": {
		{"Ramstein AB", "ETAR", "Germany", scenario.BaseAir, "FRIENDLY", 49.4369, 7.6003},
		{"RAF Lakenheath", "EGUL", "United Kingdom", scenario.BaseAir, "FRIENDLY", 52.4093, 0.5610},
		{"Aviano AB", "LIPA", "Italy", scenario.BaseAir, "FRIENDLY", 46.0319, 12.5965},
		{"Amari AB", "EEEI", "Estonia", scenario.BaseAir, "FRIENDLY", 59.2603, 24.2085},
		{"Rota Naval Station", "", "Spain", scenario.BasePort, "FRIENDLY", 36.6223, -6.3495},
		{"Chernyakhovsk AB", "", "Adversary", scenario.BaseAir, "HOSTILE", 54.6017, 21.7964},
		{"Baltiysk Naval Base", "", "Adversary", scenario.BasePort, "HOSTILE", 54.6414, 19.8924},
	},
}

// basesForTheater returns the catalog entry matching the theater name,
// defaulting to the Western Pacific set.
func basesForTheater(theater string) []baseTemplate {
	key := strings.ToUpper(strings.TrimSpace(theater))
	switch {
	case strings.Contains(key, "EUR") || strings.Contains(key, "BALTIC") || strings.Contains(key, "ATLANTIC"):
		return theaterBaseCatalog["EUROPE"]
	default:
		return theaterBaseCatalog["WESTPAC"]
	}
}

type assetTemplate struct {
	name          string
	constellation string
	affiliation   space.Affiliation
	capabilities  []space.CapabilityType
	inclination   float64
	periodMin     float64
	eccentricity  float64
	baseLon       float64
	swathKm       float64
}

// constellationCatalog seeds a representative mixed LEO/MEO/GEO picture.
// Orbits are given as analytic elements; live TLEs come from the catalog
// client when configured.
var constellationCatalog = []assetTemplate{
	{"GPS III SV01", "GPS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityGPS, space.CapabilityGPSMilitary}, 55.0, 718.0, 0.001, -120, 3000},
	{"GPS III SV02", "GPS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityGPS, space.CapabilityGPSMilitary}, 55.0, 718.0, 0.001, -30, 3000},
	{"GPS III SV03", "GPS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityGPS, space.CapabilityGPSMilitary}, 55.0, 718.0, 0.001, 60, 3000},
	{"GPS III SV04", "GPS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityGPS, space.CapabilityGPSMilitary}, 55.0, 718.0, 0.001, 150, 3000},
	{"WGS-9", "WGS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySATCOM, space.CapabilitySATCOMWideband}, 0.02, 1436.1, 0.0002, 135, 0},
	{"WGS-10", "WGS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySATCOM, space.CapabilitySATCOMWideband}, 0.02, 1436.1, 0.0002, -60, 0},
	{"AEHF-5", "AEHF", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySATCOM, space.CapabilitySATCOMProtected}, 0.05, 1436.1, 0.0003, 140, 0},
	{"AEHF-6", "AEHF", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySATCOM, space.CapabilitySATCOMProtected}, 0.05, 1436.1, 0.0003, -15, 0},
	{"MUOS-5", "MUOS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySATCOM, space.CapabilitySATCOMNarrow, space.CapabilityLink16}, 5.0, 1436.1, 0.02, 100, 0},
	{"SBIRS GEO-5", "SBIRS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityOPIR}, 0.1, 1436.1, 0.0001, 120, 0},
	{"SBIRS GEO-6", "SBIRS", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityOPIR}, 0.1, 1436.1, 0.0001, -45, 0},
	{"Crystal-4", "KH", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityISRSpace}, 97.9, 97.2, 0.0012, 0, 400},
	{"Crystal-5", "KH", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityISRSpace}, 97.9, 97.2, 0.0012, 90, 400},
	{"Topaz-6", "TOPAZ", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySIGINTSpace}, 106.0, 112.5, 0.0004, 45, 1200},
	{"DMSP F-18", "DMSP", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilityWeatherSpace}, 98.8, 101.6, 0.0011, -100, 3000},
	{"GSSAP-5", "GSSAP", space.AffiliationFriendly,
		[]space.CapabilityType{space.CapabilitySSA, space.CapabilityTTC}, 0.07, 1436.1, 0.0004, 110, 0},
	{"Olymp-K2", "OLYMP", space.AffiliationHostile,
		[]space.CapabilityType{space.CapabilitySSA, space.CapabilityEWSpace}, 0.1, 1436.1, 0.0005, 130, 0},
	{"Tobol-1", "TOBOL", space.AffiliationHostile,
		[]space.CapabilityType{space.CapabilityNavwar, space.CapabilityEWSpace}, 63.4, 718.0, 0.01, 95, 2000},
}

type unitTemplate struct {
	callsign      string
	missionID     string
	platformType  string
	platformCount int
	missionType   string
	domain        mission.Domain
	affiliation   mission.Affiliation
}

// Friendly order of battle seeded into the day-one tasking order,
// grouped by the package each unit flies under.
var friendlyStrikeUnits = []unitTemplate{
	{"VIPER11", "OCA1001", "F-35A", 4, "OCA-STRIKE", mission.DomainAir, mission.AffiliationFriendly},
	{"WEASEL41", "SEAD1002", "EA-18G", 2, "SEAD", mission.DomainAir, mission.AffiliationFriendly},
	{"SHELL91", "AAR1003", "KC-135R", 1, "TANKER", mission.DomainAir, mission.AffiliationFriendly},
}

var friendlyISRUnits = []unitTemplate{
	{"MAGIC51", "C2ISR2001", "E-3G", 1, "AEW", mission.DomainAir, mission.AffiliationFriendly},
	{"REAPER71", "ISR2002", "MQ-9A", 1, "ISR", mission.DomainAir, mission.AffiliationFriendly},
}

var friendlyDCAUnits = []unitTemplate{
	{"RAGE21", "DCA3001", "F/A-18E", 4, "DCA", mission.DomainAir, mission.AffiliationFriendly},
}

// Hostile order of battle, present so the picture has red tracks from
// day one.
var hostileUnits = []unitTemplate{
	{"FLANKER01", "ROCA9001", "J-16", 4, "OCA-STRIKE", mission.DomainAir, mission.AffiliationHostile},
	{"BADGER11", "RSTRK9002", "H-6K", 2, "MARITIME-STRIKE", mission.DomainAir, mission.AffiliationHostile},
	{"REGATTA21", "RPAT9003", "Type 052D", 1, "SAG-PATROL", mission.DomainMaritime, mission.AffiliationHostile},
}
