package diskstats

// Field indices into Row.Stats. The order follows the kernel diskstats
// columns after major, minor and device name, see
// https://www.kernel.org/doc/Documentation/ABI/testing/procfs-diskstats
const (
	FieldSuccessfulReads = iota
	FieldMergedReads
	FieldBytesRead // sectors in the source, converted to bytes by the parser
	FieldReadTimeMillis
	FieldSuccessfulWrites
	FieldMergedWrites
	FieldBytesWritten // sectors in the source, converted to bytes by the parser
	FieldWriteTimeMillis
	FieldInProgressIOPS
	FieldTotalIOMillis
	FieldWeightedIOMillis

	NumFields = 11
)

// FieldNames are the published metric names for the raw counters, in field order.
var FieldNames = [NumFields]string{
	"successfulReads",
	"mergedReads",
	"bytesRead",
	"readTimeMillis",
	"successfulWrites",
	"mergedWrites",
	"bytesWritten",
	"writeTimeMillis",
	"inProgressIOPS",
	"totalIOMillis",
	"weightedIOMillis",
}

// TotalDevice is the synthetic pseudo-device that aggregates every real
// device seen in one ingest cycle.
const TotalDevice = "total"

// Row holds one device's absolute cumulative counters at one instant.
type Row struct {
	Device     string
	Stats      [NumFields]int64
	CapturedAt int64 // unix milliseconds
}

// Add accumulates another row's counters field-wise. Used to build the
// total pseudo-device.
func (r *Row) Add(other Row) {
	for i := range r.Stats {
		r.Stats[i] += other.Stats[i]
	}
}

func (r Row) SuccessfulReads() int64  { return r.Stats[FieldSuccessfulReads] }
func (r Row) MergedReads() int64      { return r.Stats[FieldMergedReads] }
func (r Row) BytesRead() int64        { return r.Stats[FieldBytesRead] }
func (r Row) ReadTimeMillis() int64   { return r.Stats[FieldReadTimeMillis] }
func (r Row) SuccessfulWrites() int64 { return r.Stats[FieldSuccessfulWrites] }
func (r Row) MergedWrites() int64     { return r.Stats[FieldMergedWrites] }
func (r Row) BytesWritten() int64     { return r.Stats[FieldBytesWritten] }
func (r Row) WriteTimeMillis() int64  { return r.Stats[FieldWriteTimeMillis] }
