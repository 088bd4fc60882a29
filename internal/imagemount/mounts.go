package imagemount

import (
	"bufio"
	"path/filepath"
	"strings"
)

// CanonicalPath resolves symlinks and strips trailing separators so that
// textual comparison against the system mount table is reliable. If the
// path cannot be resolved, the cleaned absolute form is used instead.
func CanonicalPath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			return filepath.Clean(abs)
		}
		return filepath.Clean(path)
	}
	return filepath.Clean(resolved)
}

// Inspect checks the system mount table for the canonicalized
// (image, mountpoint) pair. A failure to obtain the listing is treated as
// no mounts visible; that is a deliberate leniency, not a guarantee.
//
// The result is advisory only: nothing prevents another process from
// mounting the same pair between this check and the mount itself.
func Inspect(runner Runner, imagePath, mountpoint string) MountState {
	output, err := runner.Output("mount")
	if err != nil {
		return MountState{Class: MountClear}
	}
	return classifyListing(string(output), imagePath, mountpoint)
}

// classifyListing scans the "source on destination (options)" lines of a
// mount listing: the first whitespace token is the mounted source, the
// third is its destination.
func classifyListing(listing, imagePath, mountpoint string) MountState {
	state := MountState{Class: MountClear}

	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != imagePath {
			continue
		}
		destination := fields[2]
		state.Destinations = append(state.Destinations, destination)
		if destination == mountpoint {
			state.Class = AlreadyMounted
		} else if state.Class != AlreadyMounted {
			state.Class = MountedElsewhere
		}
	}

	return state
}
