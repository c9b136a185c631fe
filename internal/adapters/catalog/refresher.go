package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// satNoByName maps seeded constellation names to their catalog numbers.
// Assets without an entry keep their analytic elements.
var satNoByName = map[string]int{
	"GPS III SV01": 43873,
	"GPS III SV02": 44506,
	"GPS III SV03": 45854,
	"GPS III SV04": 46826,
	"WGS-9":        42075,
	"WGS-10":       44071,
	"AEHF-5":       44481,
	"AEHF-6":       45465,
	"MUOS-5":       41622,
	"SBIRS GEO-5":  48618,
	"SBIRS GEO-6":  53356,
	"DMSP F-18":    35951,
	"GSSAP-5":      51204,
}

// AssetStore is the persistence surface the refresher writes through.
type AssetStore interface {
	FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error)
	UpdateAssetElements(ctx context.Context, id, tleLine1, tleLine2 string) error
}

// SimulationSource reports which scenario is currently loaded.
type SimulationSource interface {
	Current() *scenario.SimulationState
}

// Refresher periodically pulls current element sets for the loaded
// scenario's assets and stores them, upgrading analytic propagation to
// SGP4. Catalog failures are soft; assets keep their prior elements.
type Refresher struct {
	client   *ElsetClient
	assets   AssetStore
	sims     SimulationSource
	interval time.Duration
	log      *zap.Logger
}

// NewRefresher creates a refresher. A non-positive interval defaults to
// one hour, matching the catalog cache TTL.
func NewRefresher(client *ElsetClient, assets AssetStore, sims SimulationSource, interval time.Duration, log *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{client: client, assets: assets, sims: sims, interval: interval, log: log}
}

// Run refreshes until the context is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	state := r.sims.Current()
	if state == nil {
		return
	}

	assets, err := r.assets.FindAssets(ctx, state.ScenarioID)
	if err != nil {
		r.log.Warn("failed to load assets for elset refresh", zap.Error(err))
		return
	}

	for _, asset := range assets {
		satNo, ok := satNoByName[asset.Name]
		if !ok {
			continue
		}
		elset, err := r.client.CurrentElset(ctx, satNo)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if elset == nil || elset.Line1 == "" || elset.Line2 == "" {
			continue
		}
		if elset.Line1 == asset.TLELine1 && elset.Line2 == asset.TLELine2 {
			continue
		}
		if err := r.assets.UpdateAssetElements(ctx, asset.ID, elset.Line1, elset.Line2); err != nil {
			r.log.Warn("failed to store refreshed elements",
				zap.String("asset", asset.Name), zap.Error(err))
			continue
		}
		r.log.Info("refreshed element set",
			zap.String("asset", asset.Name), zap.Int("satNo", satNo))
	}
}
