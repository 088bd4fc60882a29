package imagemount

import (
	"fmt"
	"strconv"
)

// LookupPartition resolves a selector against the image. The selector
// must be a bare non-negative decimal integer; any other shape (signed,
// fractional, non-numeric) is reported as not-found rather than a
// distinct error.
func LookupPartition(img *DiskImage, selector string) (PartitionEntry, error) {
	number, err := strconv.ParseUint(selector, 10, 32)
	if err != nil {
		return PartitionEntry{}, fmt.Errorf("%q: %w", selector, ErrPartitionNotFound)
	}

	for _, p := range img.Partitions {
		if p.Index == int(number) {
			return p, nil
		}
	}
	return PartitionEntry{}, fmt.Errorf("%q: %w", selector, ErrPartitionNotFound)
}
