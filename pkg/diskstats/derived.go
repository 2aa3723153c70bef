package diskstats

import "math"

// Derived rate and ratio metrics computed from two consecutive snapshots.
// Nothing here is cached: gauges call these through DeviceState.Pair at read
// time, so every export reflects the latest ingested snapshot.

func elapsedSeconds(cur, prev Row) float64 {
	return float64(cur.CapturedAt-prev.CapturedAt) / 1000.0
}

// IOPS is completed reads plus writes per second across the snapshot window.
func IOPS(cur, prev Row) float64 {
	ops := (cur.SuccessfulReads() - prev.SuccessfulReads()) + (cur.SuccessfulWrites() - prev.SuccessfulWrites())
	return float64(ops) / elapsedSeconds(cur, prev)
}

// ReadThroughput is bytes read per second across the snapshot window.
func ReadThroughput(cur, prev Row) float64 {
	return float64(cur.BytesRead()-prev.BytesRead()) / elapsedSeconds(cur, prev)
}

// WriteThroughput is bytes written per second across the snapshot window.
func WriteThroughput(cur, prev Row) float64 {
	return float64(cur.BytesWritten()-prev.BytesWritten()) / elapsedSeconds(cur, prev)
}

// MergedReadFraction is the share of new merged reads over new completed
// reads. A window with no completed reads yields 0.
func MergedReadFraction(cur, prev Row) float64 {
	v := float64(cur.MergedReads()-prev.MergedReads()) / float64(cur.SuccessfulReads()-prev.SuccessfulReads())
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// MergedWriteFraction is the share of new merged writes over new completed
// writes. A window with no completed writes yields 0.
func MergedWriteFraction(cur, prev Row) float64 {
	v := float64(cur.MergedWrites()-prev.MergedWrites()) / float64(cur.SuccessfulWrites()-prev.SuccessfulWrites())
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// IOReadTimeFraction is time spent reading over the elapsed window. A
// zero-length window yields Inf or NaN, which propagates to the reader.
func IOReadTimeFraction(cur, prev Row) float64 {
	return float64(cur.ReadTimeMillis()-prev.ReadTimeMillis()) / float64(cur.CapturedAt-prev.CapturedAt)
}

// IOWriteTimeFraction is time spent writing over the elapsed window. A
// zero-length window yields Inf or NaN, which propagates to the reader.
func IOWriteTimeFraction(cur, prev Row) float64 {
	return float64(cur.WriteTimeMillis()-prev.WriteTimeMillis()) / float64(cur.CapturedAt-prev.CapturedAt)
}
