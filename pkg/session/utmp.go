package session

import (
	"bytes"
	"encoding/binary"
	"io"
)

// utmp record types (utmp.h). Only user processes carry a terminal
// whose access time reflects user activity.
const userProcess = 7

// utmpRecord mirrors the glibc utmp record: 384 bytes on the 64-bit
// Linux ports, which keep ut_tv as a pair of 32-bit fields for
// compatibility with the 32-bit on-disk format.
type utmpRecord struct {
	Type    int16
	_       [2]byte
	Pid     int32
	Line    [32]byte
	ID      [4]byte
	User    [32]byte
	Host    [256]byte
	Exit    [4]byte
	Session int32
	Sec     int32
	Usec    int32
	Addr    [16]byte
	_       [20]byte
}

// readRecords decodes utmp records until EOF. A trailing partial record
// is ignored rather than treated as corruption.
func readRecords(r io.Reader) ([]utmpRecord, error) {
	var records []utmpRecord
	for {
		var rec utmpRecord
		err := binary.Read(r, binary.NativeEndian, &rec)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// cString returns the bytes up to the first NUL as a string.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
