package space

import (
	"sort"
)

// AllocationStatus is the outcome for one space need.
type AllocationStatus string

const (
	AllocationFulfilled AllocationStatus = "FULFILLED"
	AllocationDegraded  AllocationStatus = "DEGRADED"
	AllocationDenied    AllocationStatus = "DENIED"
)

// RiskLevel summarizes the aggregate allocation outcome.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskModerate RiskLevel = "MODERATE"
	RiskLow      RiskLevel = "LOW"
)

// UntracedStrategyRank sorts needs without a strategy-priority link after
// every traced need.
const UntracedStrategyRank = 1 << 30

// AnnotatedNeed is a space need enriched with the priority context the
// allocator ranks by: its package's priority and any strategy-traced rank.
type AnnotatedNeed struct {
	*SpaceNeed
	PackagePriority int
	StrategyRank    int
}

// Allocation is the resolved outcome for one need.
type Allocation struct {
	NeedID              string
	MissionID           string
	Capability          CapabilityType
	Status              AllocationStatus
	AllocatedCapability CapabilityType
	AssetID             string
	AssetName           string
	ContentionGroup     int
}

// Contention describes one group of competing needs.
type Contention struct {
	Group      int
	Capability CapabilityType
	NeedIDs    []string
	WinnerID   string
}

// AllocationSummary aggregates the run.
type AllocationSummary struct {
	TotalNeeds int       `json:"totalNeeds"`
	Fulfilled  int       `json:"fulfilled"`
	Degraded   int       `json:"degraded"`
	Denied     int       `json:"denied"`
	Contention int       `json:"contention"`
	RiskLevel  RiskLevel `json:"riskLevel"`
}

// AllocationReport is the full output of one allocation pass.
type AllocationReport struct {
	Allocations []*Allocation
	Contentions []*Contention
	Summary     AllocationSummary
}

// Allocate resolves the given needs against the available assets and
// their coverage windows. Contention groups form per capability among
// needs with overlapping time windows; within a group competitors rank by
// strategy-traced rank, then mission criticality, then package priority,
// then need priority. The top competitor wins any supplying asset;
// the rest degrade to their fallback capability or are denied.
func Allocate(needs []*AnnotatedNeed, assets []*SpaceAsset, windows []*CoverageWindow) *AllocationReport {
	report := &AllocationReport{}
	report.Summary.TotalNeeds = len(needs)

	groups := groupContentions(needs)
	groupIdx := 0

	for _, group := range groups {
		if len(group) == 1 {
			need := group[0]
			alloc := resolveUncontended(need, assets, windows)
			report.Allocations = append(report.Allocations, alloc)
			continue
		}

		groupIdx++
		sortCompetitors(group)

		contention := &Contention{
			Group:      groupIdx,
			Capability: group[0].CapabilityType,
		}
		for _, need := range group {
			contention.NeedIDs = append(contention.NeedIDs, need.ID)
		}

		for i, need := range group {
			alloc := &Allocation{
				NeedID:          need.ID,
				MissionID:       need.MissionID,
				Capability:      need.CapabilityType,
				ContentionGroup: groupIdx,
			}
			if i == 0 {
				if asset := findSupplier(need.SpaceNeed, assets, windows); asset != nil {
					alloc.Status = AllocationFulfilled
					alloc.AllocatedCapability = need.CapabilityType
					alloc.AssetID = asset.ID
					alloc.AssetName = asset.Name
					contention.WinnerID = need.ID
				} else {
					denyOrDegrade(alloc, need.SpaceNeed)
				}
			} else {
				denyOrDegrade(alloc, need.SpaceNeed)
			}
			report.Allocations = append(report.Allocations, alloc)
		}

		report.Contentions = append(report.Contentions, contention)
	}

	for _, alloc := range report.Allocations {
		switch alloc.Status {
		case AllocationFulfilled:
			report.Summary.Fulfilled++
		case AllocationDegraded:
			report.Summary.Degraded++
		case AllocationDenied:
			report.Summary.Denied++
		}
	}
	report.Summary.Contention = len(report.Contentions)
	report.Summary.RiskLevel = assessRisk(needs, report.Allocations)

	return report
}

// groupContentions buckets needs by capability, then merges needs whose
// time windows overlap into contention groups. A group's reach extends
// to the latest end of any member.
func groupContentions(needs []*AnnotatedNeed) [][]*AnnotatedNeed {
	byCapability := make(map[CapabilityType][]*AnnotatedNeed)
	var order []CapabilityType
	for _, need := range needs {
		if _, seen := byCapability[need.CapabilityType]; !seen {
			order = append(order, need.CapabilityType)
		}
		byCapability[need.CapabilityType] = append(byCapability[need.CapabilityType], need)
	}

	var groups [][]*AnnotatedNeed
	for _, capability := range order {
		bucket := byCapability[capability]
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].StartTime.Before(bucket[j].StartTime)
		})

		var current []*AnnotatedNeed
		var reach = bucket[0].EndTime
		for _, need := range bucket {
			if len(current) == 0 || need.StartTime.Before(reach) {
				current = append(current, need)
				if need.EndTime.After(reach) {
					reach = need.EndTime
				}
				continue
			}
			groups = append(groups, current)
			current = []*AnnotatedNeed{need}
			reach = need.EndTime
		}
		groups = append(groups, current)
	}
	return groups
}

// sortCompetitors orders a contention group: ascending strategy rank,
// then criticality, then package priority, then need priority.
func sortCompetitors(group []*AnnotatedNeed) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.StrategyRank != b.StrategyRank {
			return a.StrategyRank < b.StrategyRank
		}
		if a.MissionCriticality.Rank() != b.MissionCriticality.Rank() {
			return a.MissionCriticality.Rank() < b.MissionCriticality.Rank()
		}
		if a.PackagePriority != b.PackagePriority {
			return a.PackagePriority < b.PackagePriority
		}
		return a.Priority < b.Priority
	})
}

// findSupplier returns an asset that carries the capability and has a
// coverage window for it overlapping the need window.
func findSupplier(need *SpaceNeed, assets []*SpaceAsset, windows []*CoverageWindow) *SpaceAsset {
	for _, asset := range assets {
		if !asset.Provides(need.CapabilityType) {
			continue
		}
		for _, w := range windows {
			if w.AssetID == asset.ID && w.Capability == need.CapabilityType &&
				w.Overlaps(need.StartTime, need.EndTime) {
				return asset
			}
		}
	}
	return nil
}

func resolveUncontended(need *AnnotatedNeed, assets []*SpaceAsset, windows []*CoverageWindow) *Allocation {
	alloc := &Allocation{
		NeedID:     need.ID,
		MissionID:  need.MissionID,
		Capability: need.CapabilityType,
	}
	if asset := findSupplier(need.SpaceNeed, assets, windows); asset != nil {
		alloc.Status = AllocationFulfilled
		alloc.AllocatedCapability = need.CapabilityType
		alloc.AssetID = asset.ID
		alloc.AssetName = asset.Name
	} else {
		alloc.Status = AllocationDenied
	}
	return alloc
}

func denyOrDegrade(alloc *Allocation, need *SpaceNeed) {
	if need.FallbackCapability != nil && IsValidCapability(string(*need.FallbackCapability)) {
		alloc.Status = AllocationDegraded
		alloc.AllocatedCapability = *need.FallbackCapability
	} else {
		alloc.Status = AllocationDenied
	}
}

func assessRisk(needs []*AnnotatedNeed, allocations []*Allocation) RiskLevel {
	byID := make(map[string]*AnnotatedNeed, len(needs))
	for _, need := range needs {
		byID[need.ID] = need
	}

	anyDenied := false
	anyDegraded := false
	for _, alloc := range allocations {
		switch alloc.Status {
		case AllocationDenied:
			anyDenied = true
			if need, ok := byID[alloc.NeedID]; ok && need.MissionCriticality == CriticalityCritical {
				return RiskCritical
			}
		case AllocationDegraded:
			anyDegraded = true
		}
	}
	if anyDenied {
		return RiskHigh
	}
	if anyDegraded {
		return RiskModerate
	}
	return RiskLow
}
