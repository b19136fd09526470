package tracking

import (
	"github.com/stafftrack/attendance-backend-go/internal/pkg/utils"
)

// GroupByProximity partitions snapshots into groups whose members lie
// within radiusMeters of a group anchor. All snapshots must carry a
// non-nil Location.
//
// This is a single-pass greedy grouping, deliberately not a transitive
// clustering: only the first unused point in iteration order becomes a
// group anchor, every point within radius of that anchor joins, and
// the closure is never expanded. The output therefore depends on input
// order. Downstream consumers rely on this exact behavior; do not
// replace it with connected-components clustering.
//
// Groups with a single member are dropped from the output.
func GroupByProximity(snapshots []UserSnapshot, radiusMeters float64) []ProximityGroup {
	used := make(map[int]bool, len(snapshots))
	groups := []ProximityGroup{}

	for i, anchor := range snapshots {
		if used[i] {
			continue
		}

		group := ProximityGroup{
			Center:  *anchor.Location,
			Members: []UserSnapshot{anchor},
		}

		for j, candidate := range snapshots {
			if i == j || used[j] {
				continue
			}

			dist := utils.HaversineDistanceMeters(
				anchor.Location.Latitude, anchor.Location.Longitude,
				candidate.Location.Latitude, candidate.Location.Longitude,
			)
			if dist <= radiusMeters {
				group.Members = append(group.Members, candidate)
				used[j] = true
			}
		}

		if len(group.Members) > 1 {
			groups = append(groups, group)
		}
		used[i] = true
	}

	return groups
}
