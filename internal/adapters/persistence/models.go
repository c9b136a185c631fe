package persistence

import (
	"time"
)

// ScenarioModel represents the scenarios table, the root aggregate.
// All scenario-scoped rows cascade on delete.
type ScenarioModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	Name               string     `gorm:"column:name;not null"`
	Theater            string     `gorm:"column:theater"`
	Adversary          string     `gorm:"column:adversary"`
	Description        string     `gorm:"column:description;type:text"`
	StartDate          time.Time  `gorm:"column:start_date;not null"`
	EndDate            time.Time  `gorm:"column:end_date;not null"`
	GenerationStatus   string     `gorm:"column:generation_status;not null;default:'NOT_STARTED'"`
	GenerationStep     string     `gorm:"column:generation_step"`
	GenerationProgress int        `gorm:"column:generation_progress;default:0"`
	GenerationError    string     `gorm:"column:generation_error;type:text"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
}

func (ScenarioModel) TableName() string { return "scenarios" }

// SimulationStateModel represents the simulation_states table.
// One row per scenario, overwritten per tick.
type SimulationStateModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	ScenarioID       string         `gorm:"column:scenario_id;uniqueIndex;not null"`
	Scenario         *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Status           string         `gorm:"column:status;not null"`
	SimTime          time.Time      `gorm:"column:sim_time;not null"`
	RealStartTime    time.Time      `gorm:"column:real_start_time;not null"`
	CompressionRatio float64        `gorm:"column:compression_ratio;not null"`
	CurrentATODay    int            `gorm:"column:current_ato_day;not null;default:1"`
}

func (SimulationStateModel) TableName() string { return "simulation_states" }

// StrategyDocumentModel represents the strategy_documents table.
type StrategyDocumentModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	ScenarioID       string         `gorm:"column:scenario_id;index;not null"`
	Scenario         *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DocType          string         `gorm:"column:doc_type;not null"`
	Tier             int            `gorm:"column:tier;not null"`
	ParentDocID      *string        `gorm:"column:parent_doc_id"`
	Title            string         `gorm:"column:title"`
	IssuingAuthority string         `gorm:"column:issuing_authority"`
	AuthorityLevel   string         `gorm:"column:authority_level"`
	Content          string         `gorm:"column:content;type:text"`
	EffectiveDate    *time.Time     `gorm:"column:effective_date"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null;autoCreateTime"`

	Priorities []StrategyPriorityModel `gorm:"foreignKey:DocumentID;references:ID"`
}

func (StrategyDocumentModel) TableName() string { return "strategy_documents" }

// StrategyPriorityModel represents the strategy_priorities table.
type StrategyPriorityModel struct {
	ID          string                 `gorm:"column:id;primaryKey"`
	DocumentID  string                 `gorm:"column:document_id;index;not null"`
	Document    *StrategyDocumentModel `gorm:"foreignKey:DocumentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rank        int                    `gorm:"column:rank;not null"`
	Objective   string                 `gorm:"column:objective;type:text"`
	Description string                 `gorm:"column:description;type:text"`
}

func (StrategyPriorityModel) TableName() string { return "strategy_priorities" }

// PlanningDocumentModel represents the planning_documents table.
type PlanningDocumentModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	ScenarioID       string         `gorm:"column:scenario_id;index;not null"`
	Scenario         *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DocType          string         `gorm:"column:doc_type;not null"`
	StrategyDocID    *string        `gorm:"column:strategy_doc_id"`
	Title            string         `gorm:"column:title"`
	IssuingAuthority string         `gorm:"column:issuing_authority"`
	Content          string         `gorm:"column:content;type:text"`
	EffectiveDate    *time.Time     `gorm:"column:effective_date"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null;autoCreateTime"`

	Priorities []PriorityEntryModel `gorm:"foreignKey:DocumentID;references:ID"`
}

func (PlanningDocumentModel) TableName() string { return "planning_documents" }

// PriorityEntryModel represents the priority_entries table.
type PriorityEntryModel struct {
	ID                 string                 `gorm:"column:id;primaryKey"`
	DocumentID         string                 `gorm:"column:document_id;index;not null"`
	Document           *PlanningDocumentModel `gorm:"foreignKey:DocumentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rank               int                    `gorm:"column:rank;not null"`
	Effect             string                 `gorm:"column:effect;type:text"`
	Description        string                 `gorm:"column:description;type:text"`
	StrategyPriorityID *string                `gorm:"column:strategy_priority_id"`
}

func (PriorityEntryModel) TableName() string { return "priority_entries" }

// TaskingOrderModel represents the tasking_orders table. The order tree
// is immutable after creation.
type TaskingOrderModel struct {
	ID             string         `gorm:"column:id;primaryKey"`
	ScenarioID     string         `gorm:"column:scenario_id;index:idx_order_scenario_day;not null"`
	Scenario       *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrderType      string         `gorm:"column:order_type;not null"`
	ATODayNumber   int            `gorm:"column:ato_day_number;index:idx_order_scenario_day;not null"`
	EffectiveStart time.Time      `gorm:"column:effective_start;not null"`
	EffectiveEnd   time.Time      `gorm:"column:effective_end;not null"`
	PlanningDocID  *string        `gorm:"column:planning_doc_id"`
	Source         string         `gorm:"column:source"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;autoCreateTime"`

	Packages []MissionPackageModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (TaskingOrderModel) TableName() string { return "tasking_orders" }

// MissionPackageModel represents the mission_packages table.
type MissionPackageModel struct {
	ID            string             `gorm:"column:id;primaryKey"`
	OrderID       string             `gorm:"column:order_id;index;not null"`
	Order         *TaskingOrderModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PackageID     string             `gorm:"column:package_id;not null"`
	PriorityRank  int                `gorm:"column:priority_rank;not null"`
	MissionType   string             `gorm:"column:mission_type"`
	EffectDesired string             `gorm:"column:effect_desired;type:text"`

	Missions []MissionModel `gorm:"foreignKey:PackageRowID;references:ID"`
}

func (MissionPackageModel) TableName() string { return "mission_packages" }

// MissionModel represents the missions table. Status mutates under
// simulation-engine control only.
type MissionModel struct {
	ID            string               `gorm:"column:id;primaryKey"`
	PackageRowID  string               `gorm:"column:package_row_id;index;not null"`
	Package       *MissionPackageModel `gorm:"foreignKey:PackageRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	MissionID     string               `gorm:"column:mission_id;not null"`
	Callsign      string               `gorm:"column:callsign"`
	Domain        string               `gorm:"column:domain;not null"`
	PlatformType  string               `gorm:"column:platform_type"`
	PlatformCount int                  `gorm:"column:platform_count;default:1"`
	MissionType   string               `gorm:"column:mission_type"`
	Status        string               `gorm:"column:status;not null;default:'PLANNED'"`
	Affiliation   string               `gorm:"column:affiliation;default:'FRIENDLY'"`

	Waypoints   []WaypointModel           `gorm:"foreignKey:MissionRowID;references:ID"`
	TimeWindows []TimeWindowModel         `gorm:"foreignKey:MissionRowID;references:ID"`
	Targets     []MissionTargetModel      `gorm:"foreignKey:MissionRowID;references:ID"`
	SupportReqs []SupportRequirementModel `gorm:"foreignKey:MissionRowID;references:ID"`
	SpaceNeeds  []SpaceNeedModel          `gorm:"foreignKey:MissionRowID;references:ID"`
}

func (MissionModel) TableName() string { return "missions" }

// WaypointModel represents the waypoints table. Sequence is unique and
// dense per mission.
type WaypointModel struct {
	ID           string        `gorm:"column:id;primaryKey"`
	MissionRowID string        `gorm:"column:mission_row_id;uniqueIndex:idx_waypoint_sequence;not null"`
	Mission      *MissionModel `gorm:"foreignKey:MissionRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sequence     int           `gorm:"column:sequence;uniqueIndex:idx_waypoint_sequence;not null"`
	WaypointType string        `gorm:"column:waypoint_type;not null"`
	Lat          float64       `gorm:"column:lat;not null"`
	Lon          float64       `gorm:"column:lon;not null"`
	AltitudeFt   *float64      `gorm:"column:altitude_ft"`
	SpeedKts     *float64      `gorm:"column:speed_kts"`
}

func (WaypointModel) TableName() string { return "waypoints" }

// TimeWindowModel represents the time_windows table.
type TimeWindowModel struct {
	ID           string        `gorm:"column:id;primaryKey"`
	MissionRowID string        `gorm:"column:mission_row_id;index;not null"`
	Mission      *MissionModel `gorm:"foreignKey:MissionRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	WindowType   string        `gorm:"column:window_type;not null"`
	StartTime    time.Time     `gorm:"column:start_time;not null"`
	EndTime      time.Time     `gorm:"column:end_time;not null"`
}

func (TimeWindowModel) TableName() string { return "time_windows" }

// MissionTargetModel represents the mission_targets table.
type MissionTargetModel struct {
	ID           string        `gorm:"column:id;primaryKey"`
	MissionRowID string        `gorm:"column:mission_row_id;index;not null"`
	Mission      *MissionModel `gorm:"foreignKey:MissionRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TargetName   string        `gorm:"column:target_name;not null"`
	TargetType   string        `gorm:"column:target_type"`
	Lat          float64       `gorm:"column:lat"`
	Lon          float64       `gorm:"column:lon"`
	Description  string        `gorm:"column:description;type:text"`
}

func (MissionTargetModel) TableName() string { return "mission_targets" }

// SupportRequirementModel represents the support_requirements table.
type SupportRequirementModel struct {
	ID           string        `gorm:"column:id;primaryKey"`
	MissionRowID string        `gorm:"column:mission_row_id;index;not null"`
	Mission      *MissionModel `gorm:"foreignKey:MissionRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SupportType  string        `gorm:"column:support_type;not null"`
	Description  string        `gorm:"column:description;type:text"`
}

func (SupportRequirementModel) TableName() string { return "support_requirements" }

// SpaceNeedModel represents the space_needs table.
type SpaceNeedModel struct {
	ID                 string        `gorm:"column:id;primaryKey"`
	MissionRowID       string        `gorm:"column:mission_row_id;index;not null"`
	Mission            *MissionModel `gorm:"foreignKey:MissionRowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CapabilityType     string        `gorm:"column:capability_type;not null"`
	Priority           int           `gorm:"column:priority;not null"`
	StartTime          time.Time     `gorm:"column:start_time;not null"`
	EndTime            time.Time     `gorm:"column:end_time;not null"`
	CoverageLat        *float64      `gorm:"column:coverage_lat"`
	CoverageLon        *float64      `gorm:"column:coverage_lon"`
	FallbackCapability *string       `gorm:"column:fallback_capability"`
	MissionCriticality string        `gorm:"column:mission_criticality;not null;default:'ROUTINE'"`
	Fulfilled          bool          `gorm:"column:fulfilled;not null;default:false"`
}

func (SpaceNeedModel) TableName() string { return "space_needs" }

// SpaceAssetModel represents the space_assets table.
type SpaceAssetModel struct {
	ID             string         `gorm:"column:id;primaryKey"`
	ScenarioID     string         `gorm:"column:scenario_id;index;not null"`
	Scenario       *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name           string         `gorm:"column:name;not null"`
	Constellation  string         `gorm:"column:constellation"`
	Affiliation    string         `gorm:"column:affiliation;not null;default:'FRIENDLY'"`
	Capabilities   string         `gorm:"column:capabilities;type:text;not null"` // JSON array as text
	Status         string         `gorm:"column:status;not null;default:'OPERATIONAL'"`
	TLELine1       string         `gorm:"column:tle_line1"`
	TLELine2       string         `gorm:"column:tle_line2"`
	InclinationDeg float64        `gorm:"column:inclination_deg"`
	PeriodMin      float64        `gorm:"column:period_min"`
	Eccentricity   float64        `gorm:"column:eccentricity"`
	BaseLon        float64        `gorm:"column:base_lon"`
	SwathWidthKm   float64        `gorm:"column:swath_width_km"`
}

func (SpaceAssetModel) TableName() string { return "space_assets" }

// SpaceCoverageWindowModel represents the space_coverage_windows table,
// the materialized AOS/LOS audit trail.
type SpaceCoverageWindowModel struct {
	ID              string           `gorm:"column:id;primaryKey"`
	ScenarioID      string           `gorm:"column:scenario_id;index;not null"`
	Scenario        *ScenarioModel   `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssetID         string           `gorm:"column:asset_id;index:idx_window_asset_capability;not null"`
	Asset           *SpaceAssetModel `gorm:"foreignKey:AssetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssetName       string           `gorm:"column:asset_name"`
	Capability      string           `gorm:"column:capability;index:idx_window_asset_capability;not null"`
	StartTime       time.Time        `gorm:"column:start_time;not null"`
	EndTime         time.Time        `gorm:"column:end_time;not null"`
	MaxElevationDeg float64          `gorm:"column:max_elevation_deg"`
	MaxElevationAt  *time.Time       `gorm:"column:max_elevation_at"`
	CenterLat       float64          `gorm:"column:center_lat"`
	CenterLon       float64          `gorm:"column:center_lon"`
	SwathWidthKm    float64          `gorm:"column:swath_width_km"`
}

func (SpaceCoverageWindowModel) TableName() string { return "space_coverage_windows" }

// ScenarioInjectModel represents the scenario_injects table.
type ScenarioInjectModel struct {
	ID          string         `gorm:"column:id;primaryKey"`
	ScenarioID  string         `gorm:"column:scenario_id;index;not null"`
	Scenario    *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TriggerDay  int            `gorm:"column:trigger_day;not null"`
	TriggerHour int            `gorm:"column:trigger_hour;not null"`
	InjectType  string         `gorm:"column:inject_type;not null"`
	Title       string         `gorm:"column:title"`
	Description string         `gorm:"column:description;type:text"`
	Impact      string         `gorm:"column:impact;type:text"`
	Fired       bool           `gorm:"column:fired;not null;default:false"`
	FiredAt     *time.Time     `gorm:"column:fired_at"`
}

func (ScenarioInjectModel) TableName() string { return "scenario_injects" }

// TheaterBaseModel represents the theater_bases table, basing locations
// seeded by the scenario generator.
type TheaterBaseModel struct {
	ID          string         `gorm:"column:id;primaryKey"`
	ScenarioID  string         `gorm:"column:scenario_id;index;not null"`
	Scenario    *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string         `gorm:"column:name;not null"`
	ICAO        string         `gorm:"column:icao"`
	Country     string         `gorm:"column:country"`
	BaseType    string         `gorm:"column:base_type;not null;default:'AIR'"`
	Affiliation string         `gorm:"column:affiliation;not null;default:'FRIENDLY'"`
	Lat         float64        `gorm:"column:lat;not null"`
	Lon         float64        `gorm:"column:lon;not null"`
}

func (TheaterBaseModel) TableName() string { return "theater_bases" }

// SimEventModel represents the sim_events table, the append-only fact log
// that seek replays.
type SimEventModel struct {
	ID          string         `gorm:"column:id;primaryKey"`
	ScenarioID  string         `gorm:"column:scenario_id;index:idx_event_scenario_time;not null"`
	Scenario    *ScenarioModel `gorm:"foreignKey:ScenarioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	EventType   string         `gorm:"column:event_type;not null"`
	EventTime   time.Time      `gorm:"column:event_time;index:idx_event_scenario_time;not null"`
	Title       string         `gorm:"column:title"`
	Description string         `gorm:"column:description;type:text"`
	SubjectID   string         `gorm:"column:subject_id"`
	Payload     string         `gorm:"column:payload;type:text"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;autoCreateTime"`
}

func (SimEventModel) TableName() string { return "sim_events" }

// GenerationLogModel represents the generation_logs table, the append-only
// audit of LLM attempts.
type GenerationLogModel struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement"`
	ScenarioID   string    `gorm:"column:scenario_id;index;not null"`
	Step         string    `gorm:"column:step"`
	Artifact     string    `gorm:"column:artifact"`
	Attempt      int       `gorm:"column:attempt"`
	Status       string    `gorm:"column:status;not null"`
	Model        string    `gorm:"column:model"`
	TokenBudget  int       `gorm:"column:token_budget"`
	OutputLength int       `gorm:"column:output_length"`
	PromptTokens int       `gorm:"column:prompt_tokens"`
	OutputTokens int       `gorm:"column:output_tokens"`
	DurationMs   int64     `gorm:"column:duration_ms"`
	Message      string    `gorm:"column:message;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (GenerationLogModel) TableName() string { return "generation_logs" }

// IngestLogModel represents the ingest_logs table, one row per ingest run.
type IngestLogModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	ScenarioID      string    `gorm:"column:scenario_id;index;not null"`
	InputHash       string    `gorm:"column:input_hash;not null"`
	HierarchyLevel  string    `gorm:"column:hierarchy_level"`
	DocumentType    string    `gorm:"column:document_type"`
	SourceFormat    string    `gorm:"column:source_format"`
	Confidence      float64   `gorm:"column:confidence"`
	Title           string    `gorm:"column:title"`
	ParentLinkID    *string   `gorm:"column:parent_link_id"`
	CreatedCounts   string    `gorm:"column:created_counts;type:text"` // JSON object as text
	ReviewFlagCount int       `gorm:"column:review_flag_count"`
	ParseTimeMs     int64     `gorm:"column:parse_time_ms"`
	Status          string    `gorm:"column:status;not null"`
	Error           string    `gorm:"column:error;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (IngestLogModel) TableName() string { return "ingest_logs" }
