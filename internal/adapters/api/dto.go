package api

import (
	"time"

	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// Wire DTOs for the JSON surface. Field names are the client contract.

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isoPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := iso(*t)
	return &s
}

func scenarioDTO(s *scenario.Scenario) map[string]interface{} {
	return map[string]interface{}{
		"id":                 s.ID,
		"name":               s.Name,
		"theater":            s.Theater,
		"adversary":          s.Adversary,
		"description":        s.Description,
		"startDate":          iso(s.StartDate),
		"endDate":            iso(s.EndDate),
		"generationStatus":   string(s.GenerationStatus),
		"generationStep":     s.GenerationStep,
		"generationProgress": s.GenerationProgress,
		"generationError":    s.GenerationError,
		"createdAt":          iso(s.CreatedAt),
	}
}

func simStateDTO(st *scenario.SimulationState) map[string]interface{} {
	if st == nil {
		return nil
	}
	return map[string]interface{}{
		"scenarioId":       st.ScenarioID,
		"status":           string(st.Status),
		"simTime":          iso(st.SimTime),
		"realStartTime":    iso(st.RealStartTime),
		"compressionRatio": st.CompressionRatio,
		"atoDay":           st.CurrentATODay,
	}
}

func strategyDocDTO(d *strategy.StrategyDocument) map[string]interface{} {
	priorities := make([]map[string]interface{}, 0, len(d.Priorities))
	for _, p := range d.Priorities {
		priorities = append(priorities, map[string]interface{}{
			"rank":        p.Rank,
			"objective":   p.Objective,
			"description": p.Description,
		})
	}
	return map[string]interface{}{
		"id":               d.ID,
		"docType":          string(d.DocType),
		"tier":             d.Tier,
		"parentDocId":      d.ParentDocID,
		"title":            d.Title,
		"issuingAuthority": d.IssuingAuthority,
		"content":          d.Content,
		"priorities":       priorities,
	}
}

func planningDocDTO(d *strategy.PlanningDocument) map[string]interface{} {
	entries := make([]map[string]interface{}, 0, len(d.Priorities))
	for _, e := range d.Priorities {
		entries = append(entries, map[string]interface{}{
			"rank":               e.Rank,
			"effect":             e.Effect,
			"description":        e.Description,
			"strategyPriorityId": e.StrategyPriorityID,
		})
	}
	return map[string]interface{}{
		"id":               d.ID,
		"docType":          string(d.DocType),
		"strategyDocId":    d.StrategyDocID,
		"title":            d.Title,
		"issuingAuthority": d.IssuingAuthority,
		"content":          d.Content,
		"effectiveDate":    isoPtr(d.EffectiveDate),
		"priorities":       entries,
	}
}

func missionDTO(m *mission.Mission) map[string]interface{} {
	waypoints := make([]map[string]interface{}, 0, len(m.Waypoints))
	for _, wp := range m.Waypoints {
		waypoints = append(waypoints, map[string]interface{}{
			"sequence":     wp.Sequence,
			"waypointType": string(wp.WaypointType),
			"lat":          wp.Lat,
			"lon":          wp.Lon,
			"altitudeFt":   wp.AltitudeFt,
			"speedKts":     wp.SpeedKts,
		})
	}
	windows := make([]map[string]interface{}, 0, len(m.TimeWindows))
	for _, tw := range m.TimeWindows {
		windows = append(windows, map[string]interface{}{
			"windowType": string(tw.WindowType),
			"startTime":  iso(tw.StartTime),
			"endTime":    iso(tw.EndTime),
		})
	}
	targets := make([]map[string]interface{}, 0, len(m.Targets))
	for _, t := range m.Targets {
		targets = append(targets, map[string]interface{}{
			"targetName":  t.TargetName,
			"targetType":  t.TargetType,
			"lat":         t.Lat,
			"lon":         t.Lon,
			"description": t.Description,
		})
	}
	supports := make([]map[string]interface{}, 0, len(m.SupportReqs))
	for _, sr := range m.SupportReqs {
		supports = append(supports, map[string]interface{}{
			"supportType": string(sr.SupportType),
			"description": sr.Description,
		})
	}
	return map[string]interface{}{
		"id":            m.ID,
		"missionId":     m.MissionID,
		"callsign":      m.Callsign,
		"domain":        string(m.Domain),
		"platformType":  m.PlatformType,
		"platformCount": m.PlatformCount,
		"missionType":   m.MissionType,
		"status":        string(m.Status),
		"affiliation":   string(m.Affiliation),
		"waypoints":     waypoints,
		"timeWindows":   windows,
		"targets":       targets,
		"supportReqs":   supports,
	}
}

func spaceNeedDTO(n *space.SpaceNeed) map[string]interface{} {
	dto := map[string]interface{}{
		"id":             n.ID,
		"missionId":      n.MissionID,
		"capabilityType": string(n.CapabilityType),
		"priority":       n.Priority,
		"startTime":      iso(n.StartTime),
		"endTime":        iso(n.EndTime),
		"coverageLat":    n.CoverageLat,
		"coverageLon":    n.CoverageLon,
		"criticality":    string(n.MissionCriticality),
		"fulfilled":      n.Fulfilled,
	}
	if n.FallbackCapability != nil {
		dto["fallbackCapability"] = string(*n.FallbackCapability)
	}
	return dto
}

func orderTreeDTO(tree *strategy.OrderTree) map[string]interface{} {
	packages := make([]map[string]interface{}, 0, len(tree.Packages))
	for _, pkg := range tree.Packages {
		missions := make([]map[string]interface{}, 0, len(pkg.Missions))
		for _, mt := range pkg.Missions {
			dto := missionDTO(mt.Mission)
			needs := make([]map[string]interface{}, 0, len(mt.SpaceNeeds))
			for _, n := range mt.SpaceNeeds {
				needs = append(needs, spaceNeedDTO(n))
			}
			dto["spaceNeeds"] = needs
			missions = append(missions, dto)
		}
		packages = append(packages, map[string]interface{}{
			"id":            pkg.Package.ID,
			"packageId":     pkg.Package.PackageID,
			"priorityRank":  pkg.Package.PriorityRank,
			"missionType":   pkg.Package.MissionType,
			"effectDesired": pkg.Package.EffectDesired,
			"missions":      missions,
		})
	}
	return map[string]interface{}{
		"id":             tree.Order.ID,
		"orderType":      string(tree.Order.OrderType),
		"atoDay":         tree.Order.ATODayNumber,
		"effectiveStart": iso(tree.Order.EffectiveStart),
		"effectiveEnd":   iso(tree.Order.EffectiveEnd),
		"planningDocId":  tree.Order.PlanningDocID,
		"source":         tree.Order.Source,
		"packages":       packages,
	}
}

func assetDTO(a *space.SpaceAsset) map[string]interface{} {
	capabilities := make([]string, 0, len(a.Capabilities))
	for _, c := range a.Capabilities {
		capabilities = append(capabilities, string(c))
	}
	return map[string]interface{}{
		"id":             a.ID,
		"name":           a.Name,
		"constellation":  a.Constellation,
		"affiliation":    string(a.Affiliation),
		"capabilities":   capabilities,
		"status":         string(a.Status),
		"hasTle":         a.HasTLE(),
		"inclinationDeg": a.InclinationDeg,
		"periodMin":      a.PeriodMin,
	}
}

func baseDTO(b *scenario.TheaterBase) map[string]interface{} {
	return map[string]interface{}{
		"id":          b.ID,
		"name":        b.Name,
		"icao":        b.ICAO,
		"country":     b.Country,
		"baseType":    string(b.BaseType),
		"affiliation": b.Affiliation,
		"lat":         b.Lat,
		"lon":         b.Lon,
	}
}

func injectDTO(i *scenario.Inject) map[string]interface{} {
	return map[string]interface{}{
		"id":          i.ID,
		"triggerDay":  i.TriggerDay,
		"triggerHour": i.TriggerHour,
		"injectType":  string(i.InjectType),
		"title":       i.Title,
		"description": i.Description,
		"impact":      i.Impact,
		"fired":       i.Fired,
		"firedAt":     isoPtr(i.FiredAt),
	}
}

func simEventDTO(e *scenario.SimEvent) map[string]interface{} {
	return map[string]interface{}{
		"id":          e.ID,
		"eventType":   string(e.EventType),
		"eventTime":   iso(e.EventTime),
		"title":       e.Title,
		"description": e.Description,
		"subjectId":   e.SubjectID,
		"payload":     e.Payload,
	}
}

func ingestRecordDTO(r *ingest.Record) map[string]interface{} {
	return map[string]interface{}{
		"id":              r.ID,
		"inputHash":       r.InputHash,
		"hierarchyLevel":  r.HierarchyLevel,
		"documentType":    r.DocumentType,
		"sourceFormat":    r.SourceFormat,
		"confidence":      r.Confidence,
		"title":           r.Title,
		"parentLinkId":    r.ParentLinkID,
		"createdCounts":   r.CreatedCounts,
		"reviewFlagCount": r.ReviewFlagCount,
		"parseTimeMs":     r.ParseTimeMs,
		"status":          r.Status,
		"error":           r.Error,
	}
}
