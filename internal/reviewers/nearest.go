package reviewers

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// geoPoint projects latitude/longitude degrees onto the unit sphere so that
// angular distance between points tracks great-circle distance.
func geoPoint(latitude, longitude float64) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(latitude, longitude))
}

// nearestLocated selects the located reviewer with the minimal great-circle
// distance to the origin. Candidates are expected in a deterministic order;
// only a strictly smaller distance replaces the current pick, so the first
// of equally distant reviewers wins. Returns nil when no candidate is located.
func nearestLocated(candidates []Reviewer, latitude, longitude float64) *Reviewer {
	origin := geoPoint(latitude, longitude)

	var nearest *Reviewer
	var nearestDist s1.Angle

	for i := range candidates {
		c := &candidates[i]
		if !c.Located() {
			continue
		}

		dist := origin.Distance(geoPoint(*c.Latitude, *c.Longitude))
		if nearest == nil || dist < nearestDist {
			nearest = c
			nearestDist = dist
		}
	}

	return nearest
}
