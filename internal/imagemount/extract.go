package imagemount

import (
	"fmt"
	"strings"
)

// ListingTool is the external partitioning tool used to enumerate the
// table. It is invoked read-only with an explicit column projection so
// the output shape is stable.
const ListingTool = "fdisk"

// ExtractListing runs the partitioning tool against the image and returns
// its raw text. An invocation that produces no output at all is
// ErrTableUnreadable; interpreting the text is the parser's job.
func ExtractListing(runner Runner, imagePath string) (string, error) {
	output, err := runner.Output(ListingTool,
		"--list", "--output", strings.Join(listingColumns, ","), imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to list partitions in %s: %w", imagePath, err)
	}
	if len(strings.TrimSpace(string(output))) == 0 {
		return "", fmt.Errorf("%s %s: %w", ListingTool, imagePath, ErrTableUnreadable)
	}
	return string(output), nil
}
