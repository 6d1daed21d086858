package geo

import (
	"sort"

	"github.com/meshline/meshline-go/pkg/models"
)

// SortByDistance orders nearby users ascending by distance, in place.
// Entries without a numeric distance are treated as unbounded and sort after
// all numeric entries; the sort is stable, so ties and missing-distance
// entries keep their input order.
func SortByDistance(users []models.NearbyUser) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i].DistanceKM, users[j].DistanceKM
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
