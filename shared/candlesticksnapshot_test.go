package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestCandlestickSnapshot(t *testing.T) {
	// Ensure the snapshot rejects invalid sizes.
	_, err := NewCandlestickSnapshot(0)
	assert.Error(t, err)

	_, err = NewCandlestickSnapshot(-1)
	assert.Error(t, err)

	snapshot, err := NewCandlestickSnapshot(4)
	assert.NoError(t, err)

	// Ensure an empty snapshot has no last entry.
	assert.Equal(t, snapshot.Count(), int32(0))
	if snapshot.Last() != nil {
		t.Error("expected no last entry for an empty snapshot")
	}

	candles := []Candlestick{
		{Close: 1, Volume: 10},
		{Close: 2, Volume: 20},
		{Close: 3, Volume: 30},
		{Close: 4, Volume: 40},
		{Close: 5, Volume: 50},
		{Close: 6, Volume: 60},
	}

	for idx := range candles {
		snapshot.Update(&candles[idx])
	}

	// Ensure the snapshot overwrites the oldest entries at capacity.
	assert.Equal(t, snapshot.Count(), int32(4))
	assert.Equal(t, snapshot.Last().Close, float64(6))

	// Ensure LastN returns ordered entries, oldest first.
	set := snapshot.LastN(2)
	assert.Equal(t, len(set), 2)
	assert.Equal(t, set[0].Close, float64(5))
	assert.Equal(t, set[1].Close, float64(6))

	// Ensure LastN clamps to the snapshot count.
	set = snapshot.LastN(10)
	assert.Equal(t, len(set), 4)
	assert.Equal(t, set[0].Close, float64(3))

	if snapshot.LastN(0) != nil {
		t.Error("expected no entries for a non-positive count")
	}

	// Ensure the average volume covers the trailing n entries including the
	// most recent one.
	average := snapshot.AverageVolumeN(2)
	assert.Equal(t, average, float64(55))

	// Ensure the average volume clamps to the full snapshot when fewer
	// entries are held.
	average = snapshot.AverageVolumeN(10)
	assert.Equal(t, average, float64(45))
}

func TestAverageVolumeNEmptySnapshot(t *testing.T) {
	snapshot, err := NewCandlestickSnapshot(4)
	assert.NoError(t, err)

	// Ensure an empty snapshot has zero average volume.
	assert.Equal(t, snapshot.AverageVolumeN(5), float64(0))
}
