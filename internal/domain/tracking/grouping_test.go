package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Latitude deltas along a meridian: 1 degree ~ 111195m.
const (
	lat90m  = 90.0 / 111194.926
	lat175m = 175.0 / 111194.926
)

func snapshotAt(id string, lat, lon float64) UserSnapshot {
	return UserSnapshot{
		UserID:   id,
		Name:     id,
		Status:   "active",
		Location: &Coordinate{Latitude: lat, Longitude: lon},
	}
}

func memberIDs(g ProximityGroup) []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func TestGroupByProximity_OneHopNotTransitive(t *testing.T) {
	t.Parallel()

	// A-B ~90m, B-C ~85m, A-C ~175m. With a 100m radius, A anchors
	// and pulls in B; C is beyond the anchor radius and stays out even
	// though it is within 85m of member B. The leftover singleton C is
	// dropped from the output.
	a := snapshotAt("a", 0, 0)
	b := snapshotAt("b", lat90m, 0)
	c := snapshotAt("c", lat175m, 0)

	groups := GroupByProximity([]UserSnapshot{a, b, c}, 100)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, memberIDs(groups[0]))
	assert.Equal(t, Coordinate{Latitude: 0, Longitude: 0}, groups[0].Center)
}

func TestGroupByProximity_OrderDependent(t *testing.T) {
	t.Parallel()

	// Same three points, but with B first. B anchors and both A (90m)
	// and C (85m) fall inside its radius, so all three end up in one
	// group. The output is a function of iteration order.
	a := snapshotAt("a", 0, 0)
	b := snapshotAt("b", lat90m, 0)
	c := snapshotAt("c", lat175m, 0)

	groups := GroupByProximity([]UserSnapshot{b, a, c}, 100)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"b", "a", "c"}, memberIDs(groups[0]))
	assert.Equal(t, Coordinate{Latitude: lat90m, Longitude: 0}, groups[0].Center)
}

func TestGroupByProximity_SingletonsDropped(t *testing.T) {
	t.Parallel()

	// Three points each ~900m apart: no group forms.
	groups := GroupByProximity([]UserSnapshot{
		snapshotAt("a", 0, 0),
		snapshotAt("b", 10*lat90m, 0),
		snapshotAt("c", 20*lat90m, 0),
	}, 100)

	assert.Empty(t, groups)
}

func TestGroupByProximity_CoincidentPoints(t *testing.T) {
	t.Parallel()

	groups := GroupByProximity([]UserSnapshot{
		snapshotAt("a", -6.2088, 106.8456),
		snapshotAt("b", -6.2088, 106.8456),
	}, 100)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, memberIDs(groups[0]))
}

func TestGroupByProximity_MultipleGroups(t *testing.T) {
	t.Parallel()

	// Two pairs far from each other.
	groups := GroupByProximity([]UserSnapshot{
		snapshotAt("a", 0, 0),
		snapshotAt("b", lat90m, 0),
		snapshotAt("c", 1, 0),
		snapshotAt("d", 1+lat90m, 0),
	}, 100)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b"}, memberIDs(groups[0]))
	assert.Equal(t, []string{"c", "d"}, memberIDs(groups[1]))
}

func TestGroupByProximity_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GroupByProximity(nil, 100))
	assert.Empty(t, GroupByProximity([]UserSnapshot{}, 100))
}
