package diskstats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// sectorSize converts the kernel's sector counts into bytes.
const sectorSize = 512

// ErrMalformedRecord reports a diskstats line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed diskstats record")

// ParseRow parses one diskstats line into a Row. The line is split on runs of
// whitespace; the first two tokens (major and minor device numbers) are
// discarded, the third is the device name and the next 11 tokens map
// positionally onto the counter fields. The two sector-count fields are
// multiplied by 512 so the stored values are bytes.
//
// ParseRow does not stamp CapturedAt, the caller owns the timestamp.
func ParseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Row{}, fmt.Errorf("%w: want major, minor and device name, got %d token(s)", ErrMalformedRecord, len(fields))
	}
	if len(fields) < 3+NumFields {
		return Row{}, fmt.Errorf("%w: device %s has %d of %d counter fields", ErrMalformedRecord, fields[2], len(fields)-3, NumFields)
	}

	row := Row{Device: fields[2]}
	for i := 0; i < NumFields; i++ {
		v, err := strconv.ParseUint(fields[3+i], 10, 63)
		if err != nil {
			return Row{}, fmt.Errorf("%w: device %s field %s: %q is not a non-negative integer", ErrMalformedRecord, fields[2], FieldNames[i], fields[3+i])
		}
		n := int64(v)
		if i == FieldBytesRead || i == FieldBytesWritten {
			n *= sectorSize
		}
		row.Stats[i] = n
	}
	return row, nil
}
