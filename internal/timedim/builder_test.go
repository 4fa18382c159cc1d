package timedim

import (
	"testing"

	"github.com/lyrastream/songlake/internal/star"
	"github.com/stretchr/testify/assert"
)

func TestDecompose_KnownTimestamp(t *testing.T) {
	b := NewBuilder()

	// 1541121934796 ms = 2018-11-02T01:25:34.796Z, a Friday in ISO week 44.
	rec := b.Decompose(1541121934796)

	assert.Equal(t, int64(1541121934796), rec.StartTime)
	assert.Equal(t, 1, rec.Hour)
	assert.Equal(t, 2, rec.Day)
	assert.Equal(t, 44, rec.Week)
	assert.Equal(t, 11, rec.Month)
	assert.Equal(t, 2018, rec.Year)
	assert.Equal(t, 5, rec.Weekday)
}

func TestDecompose_Deterministic(t *testing.T) {
	b := NewBuilder()

	first := b.Decompose(1541121934796)
	second := b.Decompose(1541121934796)
	assert.Equal(t, first, second)

	// A fresh builder must agree with the memoized one.
	assert.Equal(t, first, NewBuilder().Decompose(1541121934796))
}

func TestBuild_DistinctSortedTimestamps(t *testing.T) {
	b := NewBuilder()

	events := []star.PlayEvent{
		{TS: 3000},
		{TS: 1000},
		{TS: 2000},
		{TS: 1000},
		{TS: 3000},
	}

	rows := b.Build(events)

	assert.Len(t, rows, 3)
	assert.Equal(t, int64(1000), rows[0].StartTime)
	assert.Equal(t, int64(2000), rows[1].StartTime)
	assert.Equal(t, int64(3000), rows[2].StartTime)
}

func TestBuild_Empty(t *testing.T) {
	rows := NewBuilder().Build(nil)
	assert.Empty(t, rows)
}
