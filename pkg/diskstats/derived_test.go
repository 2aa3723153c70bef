package diskstats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diskstats-collector/pkg/diskstats"
)

func pair(at0, at1 int64, set func(prev, cur *diskstats.Row)) (cur, prev diskstats.Row) {
	prev = diskstats.Row{Device: "vda", CapturedAt: at0}
	cur = diskstats.Row{Device: "vda", CapturedAt: at1}
	set(&prev, &cur)
	return cur, prev
}

func TestIOPS(t *testing.T) {
	cur, prev := pair(0, 5000, func(prev, cur *diskstats.Row) {
		prev.Stats[diskstats.FieldSuccessfulReads] = 100
		prev.Stats[diskstats.FieldSuccessfulWrites] = 200
		cur.Stats[diskstats.FieldSuccessfulReads] = 150
		cur.Stats[diskstats.FieldSuccessfulWrites] = 350
	})

	// (50 reads + 150 writes) / 5s
	assert.InDelta(t, 40.0, diskstats.IOPS(cur, prev), 1e-9)
}

func TestThroughput(t *testing.T) {
	cur, prev := pair(1000, 3000, func(prev, cur *diskstats.Row) {
		prev.Stats[diskstats.FieldBytesRead] = 1 << 20
		cur.Stats[diskstats.FieldBytesRead] = 3 << 20
		prev.Stats[diskstats.FieldBytesWritten] = 0
		cur.Stats[diskstats.FieldBytesWritten] = 1 << 20
	})

	assert.InDelta(t, float64(1<<20), diskstats.ReadThroughput(cur, prev), 1e-9)
	assert.InDelta(t, float64(1<<19), diskstats.WriteThroughput(cur, prev), 1e-9)
}

func TestMergedFractions(t *testing.T) {
	cur, prev := pair(0, 5000, func(prev, cur *diskstats.Row) {
		cur.Stats[diskstats.FieldSuccessfulReads] = 100
		cur.Stats[diskstats.FieldMergedReads] = 25
		cur.Stats[diskstats.FieldSuccessfulWrites] = 50
		cur.Stats[diskstats.FieldMergedWrites] = 10
	})

	assert.InDelta(t, 0.25, diskstats.MergedReadFraction(cur, prev), 1e-9)
	assert.InDelta(t, 0.2, diskstats.MergedWriteFraction(cur, prev), 1e-9)
}

func TestMergedFractionZeroNewOps(t *testing.T) {
	// No new reads or writes at all: 0/0 collapses to exactly 0.
	cur, prev := pair(0, 5000, func(prev, cur *diskstats.Row) {
		prev.Stats[diskstats.FieldSuccessfulReads] = 100
		cur.Stats[diskstats.FieldSuccessfulReads] = 100
		prev.Stats[diskstats.FieldSuccessfulWrites] = 40
		cur.Stats[diskstats.FieldSuccessfulWrites] = 40
	})

	assert.Equal(t, 0.0, diskstats.MergedReadFraction(cur, prev))
	assert.Equal(t, 0.0, diskstats.MergedWriteFraction(cur, prev))
}

func TestMergedFractionInfWithMergesButNoCompletions(t *testing.T) {
	// Merged ops advanced while completed ops did not: x/0 stays +Inf, only
	// the NaN case collapses to 0.
	cur, prev := pair(0, 5000, func(prev, cur *diskstats.Row) {
		cur.Stats[diskstats.FieldMergedReads] = 5
	})

	assert.True(t, math.IsInf(diskstats.MergedReadFraction(cur, prev), 1))
}

func TestIOTimeFractions(t *testing.T) {
	cur, prev := pair(0, 10000, func(prev, cur *diskstats.Row) {
		cur.Stats[diskstats.FieldReadTimeMillis] = 2500
		cur.Stats[diskstats.FieldWriteTimeMillis] = 5000
	})

	assert.InDelta(t, 0.25, diskstats.IOReadTimeFraction(cur, prev), 1e-9)
	assert.InDelta(t, 0.5, diskstats.IOWriteTimeFraction(cur, prev), 1e-9)
}

func TestIOTimeFractionsZeroElapsedWindow(t *testing.T) {
	// Identical timestamps are not an error: the unguarded division produces
	// Inf (or NaN when the time delta is zero too) and propagates.
	cur, prev := pair(5000, 5000, func(prev, cur *diskstats.Row) {
		cur.Stats[diskstats.FieldReadTimeMillis] = 100
	})

	assert.True(t, math.IsInf(diskstats.IOReadTimeFraction(cur, prev), 1))
	assert.True(t, math.IsNaN(diskstats.IOWriteTimeFraction(cur, prev)))
}
