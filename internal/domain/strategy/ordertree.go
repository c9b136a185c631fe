package strategy

import (
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// OrderTree is a tasking order with its full package and mission subtree.
// Trees are built whole and persisted atomically; after creation only
// mission status mutates.
type OrderTree struct {
	Order    *TaskingOrder
	Packages []*PackageTree
}

// PackageTree is a mission package with its missions.
type PackageTree struct {
	Package  *MissionPackage
	Missions []*MissionTree
}

// MissionTree is a mission with its space needs.
type MissionTree struct {
	Mission    *mission.Mission
	SpaceNeeds []*space.SpaceNeed
}
