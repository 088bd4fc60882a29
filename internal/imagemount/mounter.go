package imagemount

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// MountTool is the external utility performing the loop-offset mount.
const MountTool = "mount"

type Mounter struct {
	image      *DiskImage
	runner     Runner
	logger     *log.Logger
	escalator  string
	privileged bool
}

// NewMounter prepares a mounter for one image. escalator is the resolved
// path of a privilege-escalation helper, or "" for none; privileged
// reports whether the current user is root.
func NewMounter(image *DiskImage, runner Runner, escalator string, privileged bool) *Mounter {
	return &Mounter{
		image:      image,
		runner:     runner,
		logger:     log.New(os.Stdout, "[imount] ", log.LstdFlags),
		escalator:  escalator,
		privileged: privileged,
	}
}

// Mount attaches the selected partition at mountpoint as a loop device
// with a byte offset computed from its start sector. Preconditions are
// checked in order: an active mount of the exact (image, mountpoint)
// pair refuses the attempt, then an unknown sector size refuses it
// before any offset arithmetic. Both refusals map to the mount utility's
// own failure status.
func (m *Mounter) Mount(partition PartitionEntry, mountpoint string) error {
	imagePath := CanonicalPath(m.image.Path)
	target := CanonicalPath(mountpoint)

	state := Inspect(m.runner, imagePath, target)
	switch state.Class {
	case AlreadyMounted:
		return fmt.Errorf("%s %w at %s", imagePath, ErrAlreadyMounted, target)
	case MountedElsewhere:
		m.logger.Printf("note: %s is also mounted at %s",
			imagePath, strings.Join(state.Destinations, ", "))
	}

	if m.image.BlockSize == 0 {
		return fmt.Errorf("%s: %w", imagePath, ErrOffsetUnknown)
	}
	offset := partition.Start * m.image.BlockSize

	var cmdline []string
	if !m.privileged {
		if m.escalator != "" {
			cmdline = append(cmdline, m.escalator)
		} else {
			m.logger.Printf("warning: not running as root and no escalation helper found; %s may refuse", MountTool)
		}
	}
	cmdline = append(cmdline, MountTool,
		"-o", fmt.Sprintf("loop,offset=%d", offset), imagePath, target)

	status, err := m.runner.Run(cmdline[0], cmdline[1:]...)
	if err != nil {
		if status > 0 {
			return &MountError{Status: status, Cmdline: cmdline}
		}
		return fmt.Errorf("failed to run %s: %w", cmdline[0], err)
	}

	m.logger.Printf("mounted %s at %s (offset %d)",
		m.image.DisplayAlias(partition), target, offset)
	return nil
}
