// Package stats computes derived marketplace metrics. Every function here is
// pure: inputs in, numbers out, no store access.
package stats

import (
	"time"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// Summary holds per-collection metrics derived from its NFT list.
type Summary struct {
	TotalVolume float64 `json:"total_volume"`
	FloorPrice  float64 `json:"floor_price"`
}

// Summarize computes the total volume (sum of NFT prices) and floor price
// (minimum NFT price) for a collection's NFT list. An empty list yields
// zero volume and domain.NoFloorPrice.
func Summarize(nfts []domain.NFT) Summary {
	if len(nfts) == 0 {
		return Summary{TotalVolume: 0, FloorPrice: domain.NoFloorPrice}
	}

	total := 0.0
	floor := nfts[0].Price
	for _, n := range nfts {
		total += n.Price
		if n.Price < floor {
			floor = n.Price
		}
	}

	return Summary{TotalVolume: total, FloorPrice: floor}
}

// TradeDelta partitions sale activities into a "today" window (ref-24h, ref]
// and a "yesterday" window (ref-48h, ref-24h], sums the sale prices in each,
// and returns today's total alongside the day-over-day percentage:
//
//	today == 0            -> 0
//	yesterday == 0        -> 100
//	otherwise             -> today / yesterday * 100
//
// Only activities of type Sold count toward trade volume.
func TradeDelta(activities []domain.Activity, ref time.Time) (today float64, pct float64) {
	todayBoundary := ref.Add(-24 * time.Hour).Unix()
	yesterdayBoundary := ref.Add(-48 * time.Hour).Unix()

	var yesterday float64
	for _, a := range activities {
		if a.Type != domain.ActivityTypeSold {
			continue
		}
		switch {
		case a.Date > todayBoundary && a.Date <= ref.Unix():
			today += a.Price
		case a.Date > yesterdayBoundary && a.Date <= todayBoundary:
			yesterday += a.Price
		}
	}

	switch {
	case today == 0:
		pct = 0
	case yesterday == 0:
		pct = 100
	default:
		pct = today / yesterday * 100
	}

	return today, pct
}
