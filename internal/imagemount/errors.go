package imagemount

import (
	"errors"
	"fmt"
	"strings"
)

// MountFailureStatus is the exit status mount(8) uses for a failed mount.
// The same status is reported for conditions this tool detects itself
// (already mounted, unknown sector size) so scripted callers see one
// consistent signal whichever layer caught it.
const MountFailureStatus = 32

var (
	ErrAlreadyMounted    = errors.New("already mounted")
	ErrOffsetUnknown     = errors.New("sector size unknown, cannot compute mount offset")
	ErrTableUnreadable   = errors.New("partition listing produced no output")
	ErrPartitionNotFound = errors.New("partition not found")
)

// MountError reports a non-zero exit from the mount utility, carrying the
// exact command line so an operator can re-run it by hand.
type MountError struct {
	Status  int
	Cmdline []string
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount failed with status %d: %s", e.Status, strings.Join(e.Cmdline, " "))
}

// ExitStatus maps an error from this package to the process exit code:
// 0 for nil, 32 for already-mounted and offset-unknown, the mount
// utility's own status for a MountError, and 1 for everything else.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrAlreadyMounted) || errors.Is(err, ErrOffsetUnknown) {
		return MountFailureStatus
	}
	var merr *MountError
	if errors.As(err, &merr) {
		return merr.Status
	}
	return 1
}
