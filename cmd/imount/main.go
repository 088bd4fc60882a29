package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"

	"github.com/spf13/pflag"

	im "github.com/larsks/imount/internal/imagemount"
	"github.com/larsks/imount/internal/version"
)

type (
	Options struct {
		help    bool
		version bool
	}
)

var options Options

type runMode int

const (
	modeUsage runMode = iota
	modeList
	modeMount
)

// selectMode picks the invocation mode from the positional argument
// count: one argument lists, three mount, anything else shows usage.
func selectMode(args []string) runMode {
	switch len(args) {
	case 1:
		return modeList
	case 3:
		return modeMount
	default:
		return modeUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <image>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s [OPTIONS] <image> <partition> <mountpoint>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nWith one argument, list the partitions in the image.\n")
	fmt.Fprintf(os.Stderr, "With three, loop-mount the selected partition at the mountpoint.\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s disk.img\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s disk.img 1 /mnt/image\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	pflag.PrintDefaults()
}

func init() {
	pflag.BoolVarP(&options.help, "help", "h", false, "show this help message")
	pflag.BoolVarP(&options.version, "version", "V", false, "print version and exit")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	pflag.Parse()

	if options.help {
		printUsage()
		os.Exit(0)
	}
	if options.version {
		fmt.Println(version.GetVersion("imount"))
		os.Exit(0)
	}

	args := pflag.Args()
	mode := selectMode(args)
	if mode == modeUsage {
		// Usage is informational, like --help: not an error exit.
		printUsage()
		os.Exit(0)
	}

	for _, tool := range []string{im.ListingTool, im.MountTool} {
		if _, err := exec.LookPath(tool); err != nil {
			fatal("required tool %q not found in PATH", tool)
		}
	}

	imagePath := args[0]
	if info, err := os.Stat(imagePath); err != nil || !info.Mode().IsRegular() {
		fatal("image file %s does not exist or is not a regular file", imagePath)
	}

	runner := im.NewRunner(im.DefaultRunnerConfig())

	listing, err := im.ExtractListing(runner, imagePath)
	if err != nil {
		fatal("%v", err)
	}
	img, err := im.ParseListing(imagePath, listing)
	if err != nil {
		fatal("%v", err)
	}

	if mode == modeList {
		if err := im.WriteListing(os.Stdout, img); err != nil {
			fatal("%v", err)
		}
		return
	}

	selector, mountpoint := args[1], args[2]
	if info, err := os.Stat(mountpoint); err != nil || !info.IsDir() {
		fatal("mountpoint %s is not an existing directory", mountpoint)
	}

	partition, err := im.LookupPartition(img, selector)
	if err != nil {
		fatal("%v", err)
	}

	currentUser, userErr := user.Current()
	if userErr != nil {
		fatal("failed to get current user: %v", userErr)
	}
	privileged := currentUser.Uid == "0"

	var escalator string
	if !privileged {
		escalator = im.FindEscalator()
	}

	mounter := im.NewMounter(img, runner, escalator, privileged)
	if err := mounter.Mount(partition, mountpoint); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(im.ExitStatus(err))
	}
}
