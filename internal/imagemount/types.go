package imagemount

import (
	"fmt"
	"path/filepath"
)

// Unknown is the sentinel kept for header fields the partition listing
// did not report. A zero BlockSize means the sector size is unknown.
const Unknown = "unknown"

// listingColumns is the fixed column projection requested from fdisk.
// The parser's arity check and the column-header detection both key off
// this list; the final column may contain embedded spaces.
var listingColumns = []string{"Start", "End", "Sectors", "Size", "Type"}

type PartitionEntry struct {
	// Index is the 1-based position in table order, assigned by the
	// parser. It is never read from the listing text.
	Index     int
	Start     int64
	End       int64
	Sectors   int64
	SizeLabel string
	TypeDesc  string
}

type DiskImage struct {
	Path        string
	DisplayName string
	// BlockSize is the logical sector size in bytes, or 0 when the
	// listing did not report one.
	BlockSize  int64
	LabelKind  string
	DiskID     string
	Partitions []PartitionEntry
}

// DisplayAlias names a partition in messages, e.g. "disk.img [Linux] partition 1".
func (img *DiskImage) DisplayAlias(p PartitionEntry) string {
	return fmt.Sprintf("%s [%s] partition %d", img.DisplayName, p.TypeDesc, p.Index)
}

func NewDiskImage(path string) *DiskImage {
	return &DiskImage{
		Path:        path,
		DisplayName: filepath.Base(path),
		LabelKind:   Unknown,
		DiskID:      Unknown,
	}
}

// MountClass classifies the pre-flight mount-table check for an
// (image, mountpoint) pair.
type MountClass int

const (
	// MountClear: the image does not appear in the mount table.
	MountClear MountClass = iota
	// MountedElsewhere: the image is mounted, but at other destinations
	// only. Mounting another partition of the same file is legitimate.
	MountedElsewhere
	// AlreadyMounted: the exact (image, mountpoint) pair is active.
	AlreadyMounted
)

type MountState struct {
	Class MountClass
	// Destinations holds every mountpoint the image is currently
	// mounted at, in mount-table order.
	Destinations []string
}
