package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceMeters_Identity(t *testing.T) {
	t.Parallel()

	points := [][2]float64{
		{0, 0},
		{-6.2088, 106.8456},
		{51.5074, -0.1278},
		{-90, 180},
	}

	for _, p := range points {
		assert.Zero(t, HaversineDistanceMeters(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversineDistanceMeters_Symmetric(t *testing.T) {
	t.Parallel()

	d1 := HaversineDistanceMeters(-6.2088, 106.8456, -6.9175, 107.6191)
	d2 := HaversineDistanceMeters(-6.9175, 107.6191, -6.2088, 106.8456)

	assert.Equal(t, d1, d2)
}

func TestHaversineDistanceMeters_MeridianArc(t *testing.T) {
	t.Parallel()

	// 100km along a meridian is a latitude delta of ~0.8993 degrees.
	d := HaversineDistanceMeters(0, 106.8456, 0.8993216, 106.8456)

	assert.InDelta(t, 100000, d, 1.0)
}

func TestHaversineDistanceMeters_ShortDistance(t *testing.T) {
	t.Parallel()

	// ~150m along the equator: 150 / 111194.93 degrees of longitude.
	d := HaversineDistanceMeters(0, 0, 0, 0.0013490)

	assert.InDelta(t, 150, d, 0.5)
}

func TestRound2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8.5, Round2(8.4999999))
	assert.Equal(t, 0.33, Round2(1.0/3.0))
	assert.Equal(t, -2.67, Round2(-2.6666))
	assert.Equal(t, 100.0, Round2(100))
}
