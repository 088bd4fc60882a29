package imagemount

import (
	"bufio"
	"strconv"
	"strings"
)

// ParseListing converts the raw partition-listing text into a DiskImage.
// The scan has two phases: header lines are matched individually, in any
// order, until the column-header row appears; every line after that is a
// candidate partition row. Header fields that never appear keep their
// unknown sentinels. A listing with a header but no rows parses
// successfully to an image with zero partitions.
func ParseListing(imagePath, text string) (*DiskImage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTableUnreadable
	}

	img := NewDiskImage(imagePath)
	inTable := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if !inTable {
			if isColumnHeader(line) {
				inTable = true
				continue
			}
			scanHeaderLine(img, line)
			continue
		}

		if entry, ok := parsePartitionRow(line); ok {
			entry.Index = len(img.Partitions) + 1
			img.Partitions = append(img.Partitions, entry)
		}
	}

	return img, nil
}

// isColumnHeader recognizes the row naming the projected columns, using
// the first and last column names as anchors.
func isColumnHeader(line string) bool {
	first := listingColumns[0]
	last := listingColumns[len(listingColumns)-1]
	return strings.HasPrefix(line, first) && strings.HasSuffix(line, last)
}

func scanHeaderLine(img *DiskImage, line string) {
	switch {
	case strings.HasPrefix(line, "Sector size"):
		// e.g. "Sector size (logical/physical): 512 bytes / 512 bytes";
		// the logical size is what offsets are computed from.
		if img.BlockSize == 0 {
			img.BlockSize = firstIntAfter(line, ":")
		}
	case strings.HasPrefix(line, "Units:"):
		// e.g. "Units: sectors of 1 * 512 = 512 bytes"
		if img.BlockSize == 0 {
			img.BlockSize = firstIntAfter(line, "=")
		}
	case strings.HasPrefix(line, "Disklabel type:"):
		if img.LabelKind == Unknown {
			img.LabelKind = valueAfter(line, ":")
		}
	case strings.HasPrefix(line, "Disk identifier:"):
		if img.DiskID == Unknown {
			img.DiskID = valueAfter(line, ":")
		}
	}
}

// parsePartitionRow accepts a line only if it splits into at least the
// projected column count and its numeric columns parse; the trailing type
// column is the remainder and may contain spaces. Anything else (blank
// lines, tool notices) is skipped without consuming an index.
func parsePartitionRow(line string) (PartitionEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < len(listingColumns) {
		return PartitionEntry{}, false
	}

	start, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || start < 0 {
		return PartitionEntry{}, false
	}
	end, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || end < start {
		return PartitionEntry{}, false
	}
	sectors, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || sectors < 0 {
		return PartitionEntry{}, false
	}

	return PartitionEntry{
		Start:     start,
		End:       end,
		Sectors:   sectors,
		SizeLabel: fields[3],
		TypeDesc:  strings.Join(fields[4:], " "),
	}, true
}

func valueAfter(line, sep string) string {
	_, rest, found := strings.Cut(line, sep)
	if !found {
		return Unknown
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Unknown
	}
	return rest
}

func firstIntAfter(line, sep string) int64 {
	_, rest, found := strings.Cut(line, sep)
	if !found {
		return 0
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
