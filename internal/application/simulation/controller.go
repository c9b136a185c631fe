package simulation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// Options tunes the engine loops.
type Options struct {
	CompressionRatio     float64
	TickInterval         time.Duration
	PositionInterval     time.Duration
	CoverageEvery        int
	LeadTimeFactor       float64
	FulfillmentThreshold float64
}

func (o Options) withDefaults() Options {
	if o.CompressionRatio <= 0 {
		o.CompressionRatio = 720
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.PositionInterval <= 0 {
		o.PositionInterval = 2 * time.Second
	}
	if o.CoverageEvery <= 0 {
		o.CoverageEvery = 5
	}
	if o.FulfillmentThreshold <= 0 {
		o.FulfillmentThreshold = space.DefaultFulfillmentThreshold
	}
	return o
}

// ScenarioStore is the scenario access the engine needs.
type ScenarioStore interface {
	FindByID(ctx context.Context, id string) (*scenario.Scenario, error)
}

// SimStore persists the per-scenario clock state.
type SimStore interface {
	Save(ctx context.Context, state *scenario.SimulationState) error
	FindByScenario(ctx context.Context, scenarioID string) (*scenario.SimulationState, error)
}

// MissionStore reads and mutates mission state.
type MissionStore interface {
	FindNonTerminal(ctx context.Context, scenarioID string) ([]*mission.Mission, error)
	FindActive(ctx context.Context, scenarioID string) ([]*mission.Mission, error)
	UpdateStatus(ctx context.Context, id string, status mission.Status) error
}

// OrderStore reads order trees for the allocator.
type OrderStore interface {
	FindByDay(ctx context.Context, scenarioID string, atoDay int) ([]*strategy.OrderTree, error)
}

// SpaceStore reads and mutates the space picture.
type SpaceStore interface {
	FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error)
	FindOperationalAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error)
	UpdateAssetStatus(ctx context.Context, id string, status space.AssetStatus) error
	FindNeedsInWindow(ctx context.Context, scenarioID string, start, end time.Time) ([]*space.SpaceNeed, error)
	MarkNeedsFulfilled(ctx context.Context, ids []string) error
	ReplaceCoverageWindows(ctx context.Context, scenarioID string, windows []*space.CoverageWindow) error
	FindCoverageWindows(ctx context.Context, scenarioID string) ([]*space.CoverageWindow, error)
}

// EventStore reads injects and appends simulation facts.
type EventStore interface {
	FindUnfiredInjects(ctx context.Context, scenarioID string) ([]*scenario.Inject, error)
	MarkInjectFired(ctx context.Context, id string, firedAt time.Time) error
	ResetInjectsAfter(ctx context.Context, scenarioID string, atoDay, hourUTC int) error
	AddEvent(ctx context.Context, event *scenario.SimEvent) error
	FindEventsUpTo(ctx context.Context, scenarioID string, t time.Time) ([]*scenario.SimEvent, error)
}

// DocumentStore reads strategy priorities for allocation ranking.
type DocumentStore interface {
	FindDeepestStrategyDocument(ctx context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error)
}

// GameMaster runs the day-boundary cycle.
type GameMaster interface {
	GenerateATO(ctx context.Context, scenarioID string, atoDay int) error
	AssessBDA(ctx context.Context, scenarioID string, atoDay int) error
}

// EventPublisher delivers engine events to the scenario room.
type EventPublisher interface {
	Publish(scenarioID, event string, payload interface{})
}

// Controller owns the single mutable simulation handle and the two
// periodic loops driving it. At most one simulation is RUNNING at a
// time; a second start fails fast. Loop-owned fields (generation
// counters, gap diff state) are touched only from the loop goroutine
// and the lifecycle entry points, all under the mutex.
type Controller struct {
	opts      Options
	scenarios ScenarioStore
	sims      SimStore
	missions  MissionStore
	orders    OrderStore
	spaces    SpaceStore
	events    EventStore
	docs      DocumentStore
	gm        GameMaster
	publisher EventPublisher

	propagator *space.Propagator
	interp     *mission.Interpolator
	clock      shared.Clock
	log        *zap.Logger
	rand       *rand.Rand

	mu                  sync.Mutex
	sim                 *scenario.SimulationState
	scn                 *scenario.Scenario
	generation          uint64
	isGenerating        bool
	lastATODayGenerated int
	lastBDADay          int
	posIterations       int
	prevGaps            map[string]*space.CoverageGap
	stop                chan struct{}
}

// NewController wires the simulation engine. The game master may be nil,
// which disables the day-boundary cycle.
func NewController(opts Options, scenarios ScenarioStore, sims SimStore, missions MissionStore, orders OrderStore, spaces SpaceStore, events EventStore, docs DocumentStore, gm GameMaster, publisher EventPublisher, clock shared.Clock, log *zap.Logger) *Controller {
	opts = opts.withDefaults()
	if clock == nil {
		clock = shared.NewWallClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		opts:       opts,
		scenarios:  scenarios,
		sims:       sims,
		missions:   missions,
		orders:     orders,
		spaces:     spaces,
		events:     events,
		docs:       docs,
		gm:         gm,
		publisher:  publisher,
		propagator: space.NewPropagator(),
		interp:     mission.NewInterpolator(opts.LeadTimeFactor),
		clock:      clock,
		log:        log,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		prevGaps:   make(map[string]*space.CoverageGap),
	}
}

// Start begins (or resumes) the simulation for a scenario and launches
// the engine loops. Fails fast when another simulation is RUNNING.
func (c *Controller) Start(ctx context.Context, scenarioID string) (*scenario.SimulationState, error) {
	c.mu.Lock()
	if c.sim != nil && c.sim.Status == scenario.SimRunning {
		running := c.sim.ScenarioID
		c.mu.Unlock()
		return nil, shared.NewSimulationAlreadyRunningError(running)
	}
	c.mu.Unlock()

	scn, err := c.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	state, err := c.sims.FindByScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &scenario.SimulationState{
			ID:               uuid.NewString(),
			ScenarioID:       scenarioID,
			SimTime:          scn.StartDate,
			CompressionRatio: c.opts.CompressionRatio,
			CurrentATODay:    1,
		}
	}
	state.Status = scenario.SimRunning
	state.RealStartTime = c.clock.Now()
	if state.CompressionRatio <= 0 {
		state.CompressionRatio = c.opts.CompressionRatio
	}
	state.CurrentATODay = scn.ATODayFor(state.SimTime)
	if err := c.sims.Save(ctx, state); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	c.sim = state
	c.scn = scn
	c.generation++
	gen := c.generation
	c.isGenerating = false
	// Zero forces a day-boundary pass on the first tick; the game master
	// skips days that already have an order.
	c.lastATODayGenerated = 0
	c.lastBDADay = state.CurrentATODay - 1
	c.posIterations = 0
	c.prevGaps = make(map[string]*space.CoverageGap)
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	go c.runLoops(gen, stop)

	c.log.Info("simulation started",
		zap.String("scenario_id", scenarioID),
		zap.Float64("compression_ratio", state.CompressionRatio))
	return state, nil
}

func (c *Controller) runLoops(gen uint64, stop chan struct{}) {
	tick := time.NewTicker(c.opts.TickInterval)
	defer tick.Stop()
	pos := time.NewTicker(c.opts.PositionInterval)
	defer pos.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			c.tick(context.Background(), gen)
		case <-pos.C:
			c.positionTick(context.Background(), gen)
		}
	}
}

// Pause suspends the simulation clock without tearing the loops down.
func (c *Controller) Pause(ctx context.Context) (*scenario.SimulationState, error) {
	return c.transition(ctx, scenario.SimRunning, scenario.SimPaused)
}

// Resume continues a paused simulation.
func (c *Controller) Resume(ctx context.Context) (*scenario.SimulationState, error) {
	return c.transition(ctx, scenario.SimPaused, scenario.SimRunning)
}

func (c *Controller) transition(ctx context.Context, from, to scenario.SimStatus) (*scenario.SimulationState, error) {
	c.mu.Lock()
	if c.sim == nil {
		c.mu.Unlock()
		return nil, shared.NewSimulationError("no simulation loaded")
	}
	if c.sim.Status != from {
		status := c.sim.Status
		c.mu.Unlock()
		return nil, shared.NewSimulationError("simulation is " + string(status))
	}
	c.sim.Status = to
	state := *c.sim
	c.mu.Unlock()

	if err := c.sims.Save(ctx, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Stop clears the loops, persists a STOPPED snapshot and nulls the
// handle.
func (c *Controller) Stop(ctx context.Context) (*scenario.SimulationState, error) {
	c.mu.Lock()
	if c.sim == nil {
		c.mu.Unlock()
		return nil, shared.NewSimulationError("no simulation loaded")
	}
	c.sim.Status = scenario.SimStopped
	state := *c.sim
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.sim = nil
	c.scn = nil
	c.generation++
	c.mu.Unlock()

	if err := c.sims.Save(ctx, &state); err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	c.log.Info("simulation stopped", zap.String("scenario_id", state.ScenarioID))
	return &state, nil
}

// SetSpeed changes the compression ratio in place.
func (c *Controller) SetSpeed(ctx context.Context, ratio float64) (*scenario.SimulationState, error) {
	if ratio <= 0 {
		return nil, shared.NewValidationError("ratio", "compression ratio must be positive")
	}
	c.mu.Lock()
	if c.sim == nil {
		c.mu.Unlock()
		return nil, shared.NewSimulationError("no simulation loaded")
	}
	c.sim.CompressionRatio = ratio
	state := *c.sim
	c.mu.Unlock()

	if err := c.sims.Save(ctx, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Seek jumps the simulation clock to target, clamped to scenario bounds,
// and rederives asset statuses by replaying the event log up to that
// instant. Destroyed assets come back LOST, jammed or degraded ones
// DEGRADED, everything else OPERATIONAL, so seeking is idempotent in
// either direction. Injects after the target re-arm.
func (c *Controller) Seek(ctx context.Context, target time.Time) (*scenario.SimulationState, error) {
	c.mu.Lock()
	if c.sim == nil {
		c.mu.Unlock()
		return nil, shared.NewSimulationError("no simulation loaded")
	}
	scn := c.scn
	target = scn.ClampToBounds(target)
	c.sim.SimTime = target
	c.sim.CurrentATODay = scn.ATODayFor(target)
	state := *c.sim
	c.lastATODayGenerated = state.CurrentATODay
	c.lastBDADay = state.CurrentATODay - 1
	c.prevGaps = make(map[string]*space.CoverageGap)
	c.mu.Unlock()

	events, err := c.events.FindEventsUpTo(ctx, scn.ID, target)
	if err != nil {
		return nil, err
	}
	derived := make(map[string]space.AssetStatus)
	for _, ev := range events {
		switch ev.EventType {
		case scenario.EventSatelliteDestroyed:
			derived[ev.SubjectID] = space.AssetLost
		case scenario.EventSatelliteJammed, scenario.EventSatelliteDegraded:
			if derived[ev.SubjectID] != space.AssetLost {
				derived[ev.SubjectID] = space.AssetDegraded
			}
		}
	}

	assets, err := c.spaces.FindAssets(ctx, scn.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		want, ok := derived[a.ID]
		if !ok {
			want = space.AssetOperational
		}
		if a.Status != want {
			if err := c.spaces.UpdateAssetStatus(ctx, a.ID, want); err != nil {
				return nil, err
			}
		}
	}

	if err := c.events.ResetInjectsAfter(ctx, scn.ID, state.CurrentATODay, target.UTC().Hour()); err != nil {
		return nil, err
	}
	if err := c.sims.Save(ctx, &state); err != nil {
		return nil, err
	}

	c.publisher.Publish(scn.ID, "simulation:tick", map[string]interface{}{
		"simTime":  state.SimTime.UTC().Format(time.RFC3339),
		"realTime": c.clock.Now().UTC().Format(time.RFC3339),
		"ratio":    state.CompressionRatio,
		"atoDay":   state.CurrentATODay,
	})
	return &state, nil
}

// Current returns a copy of the loaded simulation state, or nil.
func (c *Controller) Current() *scenario.SimulationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sim == nil {
		return nil
	}
	state := *c.sim
	return &state
}

// alive reports whether the loop generation still owns a RUNNING sim.
func (c *Controller) alive(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim != nil && c.generation == gen && c.sim.Status == scenario.SimRunning
}

// abort tears the simulation down after detecting concurrent scenario
// deletion mid-loop. Nothing is persisted.
func (c *Controller) abort(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.sim == nil {
		return
	}
	c.log.Info("scenario deleted mid-simulation, aborting",
		zap.String("scenario_id", c.sim.ScenarioID))
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.sim = nil
	c.scn = nil
	c.generation++
}
