package imagemount

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteListing renders the parsed image for human display: the header
// fields, then one row per partition. An image with no partitions is
// still a successful listing.
func WriteListing(w io.Writer, img *DiskImage) error {
	sectorSize := Unknown
	if img.BlockSize > 0 {
		sectorSize = fmt.Sprintf("%d bytes", img.BlockSize)
	}
	fmt.Fprintf(w, "Image: %s\n", img.Path)
	fmt.Fprintf(w, "Sector size: %s\n", sectorSize)
	fmt.Fprintf(w, "Disklabel type: %s\n", img.LabelKind)
	fmt.Fprintf(w, "Disk identifier: %s\n\n", img.DiskID)

	if len(img.Partitions) == 0 {
		fmt.Fprintln(w, "No partitions found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Number\tStart\tEnd\tSectors\tSize\tType")
	for _, p := range img.Partitions {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n",
			p.Index, p.Start, p.End, p.Sectors, p.SizeLabel, p.TypeDesc)
	}
	return tw.Flush()
}
