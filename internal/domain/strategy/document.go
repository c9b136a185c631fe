package strategy

import (
	"time"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// StrategyDocType names a tier of the strategy cascade.
type StrategyDocType string

const (
	DocNDS     StrategyDocType = "NDS"
	DocNMS     StrategyDocType = "NMS"
	DocJSCP    StrategyDocType = "JSCP"
	DocCONPLAN StrategyDocType = "CONPLAN"
	DocOPLAN   StrategyDocType = "OPLAN"
)

// tierByDocType fixes the strict 1..5 cascade ordering.
var tierByDocType = map[StrategyDocType]int{
	DocNDS:     1,
	DocNMS:     2,
	DocJSCP:    3,
	DocCONPLAN: 4,
	DocOPLAN:   5,
}

// TierFor returns the cascade tier for a strategy document type, or 0 for
// an unknown type.
func TierFor(docType StrategyDocType) int {
	return tierByDocType[docType]
}

// StrategyDocument is one tier of the strategy cascade. ParentDocID, when
// set, must reference the document exactly one tier above.
type StrategyDocument struct {
	ID               string
	ScenarioID       string
	DocType          StrategyDocType
	Tier             int
	ParentDocID      *string
	Title            string
	IssuingAuthority string
	AuthorityLevel   string
	Content          string
	EffectiveDate    *time.Time

	Priorities []*StrategyPriority
}

// ValidateParent enforces the tier-chain invariant: parent tier must be
// exactly one less than this document's tier.
func (d *StrategyDocument) ValidateParent(parent *StrategyDocument) error {
	if parent == nil {
		return nil
	}
	if parent.Tier != d.Tier-1 {
		return shared.NewInvalidTierChainError(parent.Tier, d.Tier)
	}
	return nil
}

// StrategyPriority is a ranked objective owned by a strategy document.
type StrategyPriority struct {
	ID          string
	DocumentID  string
	Rank        int
	Objective   string
	Description string
}

// PlanningDocType names a planning document kind.
type PlanningDocType string

const (
	PlanJIPTL PlanningDocType = "JIPTL"
	PlanSPINS PlanningDocType = "SPINS"
	PlanACO   PlanningDocType = "ACO"
	PlanMAAP  PlanningDocType = "MAAP"
	PlanMSEL  PlanningDocType = "MSEL"
)

// PlanningDocument bridges the strategy cascade to daily tasking.
type PlanningDocument struct {
	ID               string
	ScenarioID       string
	DocType          PlanningDocType
	StrategyDocID    *string
	Title            string
	IssuingAuthority string
	Content          string
	EffectiveDate    *time.Time

	Priorities []*PriorityEntry
}

// PriorityEntry is one ranked effect in a planning document, optionally
// traced to a strategy priority.
type PriorityEntry struct {
	ID                 string
	DocumentID         string
	Rank               int
	Effect             string
	Description        string
	StrategyPriorityID *string
}

// OrderType names a tasking-order kind.
type OrderType string

const (
	OrderATO     OrderType = "ATO"
	OrderMTO     OrderType = "MTO"
	OrderSTO     OrderType = "STO"
	OrderOPORD   OrderType = "OPORD"
	OrderEXORD   OrderType = "EXORD"
	OrderFRAGORD OrderType = "FRAGORD"
	OrderACO     OrderType = "ACO"
	OrderSPINS   OrderType = "SPINS"
)

// TaskingOrder is a one-day operational order owning mission packages.
// The order tree is immutable after creation; a new day produces a new
// order rather than a mutation.
type TaskingOrder struct {
	ID             string
	ScenarioID     string
	OrderType      OrderType
	ATODayNumber   int
	EffectiveStart time.Time
	EffectiveEnd   time.Time
	PlanningDocID  *string
	Source         string
}

// MissionPackage groups missions under a tasking order by priority.
type MissionPackage struct {
	ID            string
	OrderID       string
	PackageID     string
	PriorityRank  int
	MissionType   string
	EffectDesired string
}
