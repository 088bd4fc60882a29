package imagemount

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))
	return path
}

func singlePartitionImage(path string, blockSize int64) *DiskImage {
	img := NewDiskImage(path)
	img.BlockSize = blockSize
	img.LabelKind = "dos"
	img.Partitions = []PartitionEntry{
		{Index: 1, Start: 2048, End: 204799, Sectors: 202752, SizeLabel: "99M", TypeDesc: "Linux"},
	}
	return img
}

func TestMountComputesOffset(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = "proc on /proc type proc (rw)\n"

	mounter := NewMounter(img, runner, "", true)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	require.NoError(t, err)

	require.Len(t, runner.runCalls, 1)
	assert.Equal(t, []string{
		"mount", "-o", "loop,offset=1048576", CanonicalPath(imgPath), "/mnt/x",
	}, runner.runCalls[0])
}

func TestMountOffsetUnknown(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 0)

	runner := newFakeRunner()
	runner.outputs["mount"] = ""

	mounter := NewMounter(img, runner, "", true)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	assert.ErrorIs(t, err, ErrOffsetUnknown)
	assert.Empty(t, runner.runCalls, "mount utility must not be invoked")
}

func TestMountRefusesAlreadyMounted(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = fmt.Sprintf("%s on /mnt/x type ext4 (rw)\n", CanonicalPath(imgPath))

	mounter := NewMounter(img, runner, "", true)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	assert.ErrorIs(t, err, ErrAlreadyMounted)
	assert.Empty(t, runner.runCalls, "mount utility must not be invoked")
}

func TestMountProceedsWhenMountedElsewhere(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = fmt.Sprintf("%s on /mnt/other type ext4 (rw)\n", CanonicalPath(imgPath))

	mounter := NewMounter(img, runner, "", true)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	require.NoError(t, err)
	require.Len(t, runner.runCalls, 1)
}

func TestMountUsesEscalator(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = ""

	mounter := NewMounter(img, runner, "/usr/bin/sudo", false)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	require.NoError(t, err)

	require.Len(t, runner.runCalls, 1)
	assert.Equal(t, "/usr/bin/sudo", runner.runCalls[0][0])
	assert.Equal(t, "mount", runner.runCalls[0][1])
}

func TestMountUnprivilegedWithoutEscalatorProceeds(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = ""

	mounter := NewMounter(img, runner, "", false)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")
	require.NoError(t, err)
	require.Len(t, runner.runCalls, 1)
	assert.Equal(t, "mount", runner.runCalls[0][0])
}

func TestMountFailureCarriesStatusAndCmdline(t *testing.T) {
	imgPath := writeTestImage(t)
	img := singlePartitionImage(imgPath, 512)

	runner := newFakeRunner()
	runner.outputs["mount"] = ""
	runner.runStatus = 64

	mounter := NewMounter(img, runner, "", true)
	err := mounter.Mount(img.Partitions[0], "/mnt/x")

	var merr *MountError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 64, merr.Status)
	assert.Equal(t, []string{
		"mount", "-o", "loop,offset=1048576", CanonicalPath(imgPath), "/mnt/x",
	}, merr.Cmdline)
}

// End to end through the fake runner: extract, parse, look up, mount.
func TestListThenMount(t *testing.T) {
	imgPath := writeTestImage(t)

	runner := newFakeRunner()
	runner.outputs[ListingTool] = `Disk disk.img: 100 MiB, 104857600 bytes, 204800 sectors
Sector size (logical/physical): 512 bytes / 512 bytes
Disklabel type: dos
Disk identifier: 0xdeadbeef

Start End Sectors Size Type
2048 204799 202752 99M Linux
`
	runner.outputs["mount"] = "proc on /proc type proc (rw)\n"

	listing, err := ExtractListing(runner, imgPath)
	require.NoError(t, err)

	img, err := ParseListing(imgPath, listing)
	require.NoError(t, err)
	require.Len(t, img.Partitions, 1)

	partition, err := LookupPartition(img, "1")
	require.NoError(t, err)

	mounter := NewMounter(img, runner, "", true)
	require.NoError(t, mounter.Mount(partition, "/mnt/x"))

	require.Len(t, runner.runCalls, 1)
	assert.Contains(t, runner.runCalls[0], "loop,offset=1048576")
}
