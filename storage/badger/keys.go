package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/carprompt/core"
)

// Key prefixes for different data types. No prefix is a prefix of another.
const (
	listingPrefix     = "lst:"
	listingDatePrefix = "lstd:"
	listingIDSeq      = "lstseq"
	garagePrefix      = "gar:"
	garageIDSeq       = "garseq"
	searchLogPrefix   = "slog:"
	searchLogIDSeq    = "slogseq"
)

// makeIDKey generates a key for a record by ID.
// Format: prefix + BigEndian(id), so prefix scans run in ID order.
func makeIDKey(prefix string, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func makeListingKey(id core.ID) []byte {
	return makeIDKey(listingPrefix, id)
}

func makeGarageKey(id core.ID) []byte {
	return makeIDKey(garagePrefix, id)
}

func makeSearchLogKey(id core.ID) []byte {
	return makeIDKey(searchLogPrefix, id)
}

// makeListingDateKey generates a composite key for the insertion-date index.
// Format: prefix:timestamp:id
func makeListingDateKey(insertedAt time.Time, id core.ID) []byte {
	buf := make([]byte, len(listingDatePrefix)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, listingDatePrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(insertedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
