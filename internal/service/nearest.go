package service

import (
	"math"
	"sort"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
)

// DefaultNearestK bounds the evidence bundle when no override is configured.
const DefaultNearestK = 5

// RankedIncident is an incident annotated with its distance to the query
// point.
type RankedIncident struct {
	domain.Incident
	DistanceM float64
}

// MetersDistance approximates the distance between two lat/lng points in
// meters using a local equirectangular projection: longitude deltas are
// scaled by 111320*cos(mean latitude), latitude deltas by 110540. Valid for
// city-scale spans; score calibration depends on these exact constants.
func MetersDistance(lat1, lat2, lng1, lng2 float64) float64 {
	dx := (lng2 - lng1) * 111_320 * math.Cos((lat1+lat2)/2*math.Pi/180)
	dy := (lat2 - lat1) * 110_540
	return math.Hypot(dx, dy)
}

// Nearest returns the k incidents closest to (lat, lng), ordered by
// non-decreasing distance. The input slice must be in ingestion order; the
// stable sort keeps that order for equidistant incidents.
func Nearest(incidents []domain.Incident, lat, lng float64, k int) ([]RankedIncident, error) {
	if len(incidents) == 0 {
		return nil, e.ErrNoIncidents
	}
	if k < 1 {
		k = DefaultNearestK
	}

	ranked := make([]RankedIncident, 0, len(incidents))
	for _, inc := range incidents {
		ranked = append(ranked, RankedIncident{
			Incident:  inc,
			DistanceM: MetersDistance(lat, inc.Lat, lng, inc.Lng),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceM < ranked[j].DistanceM
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
