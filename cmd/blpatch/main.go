// Command blpatch produces one bootloader image per device variant.
//
// Usage:
//
//	blpatch [flags] <bootloader.hex> <variants.ini>
//
// The bootloader image is re-encoded as bootloader-unpatched.hex and, for
// every variant of the definition file, patched with the variant's
// configuration block and written as bootloader-<variant>.hex.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/moffa90/go-blpatch/ihex"
	"github.com/moffa90/go-blpatch/patcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "blpatch",
		Usage:     "patch per-variant configuration blocks into a bootloader image",
		ArgsUsage: "<bootloader.hex> <variants.ini>",
		Description: "Reads an Intel HEX bootloader image and a variant definition file, " +
			"compiles every variant into its configuration block and writes one patched " +
			"Intel HEX image per variant, plus the unpatched image re-encoded.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-location",
				Aliases: []string{"c"},
				Value:   "0x100",
				Usage:   "address the configuration block is patched at",
			},
			&cli.StringFlag{
				Name:    "destination-dir",
				Aliases: []string{"d"},
				Usage:   "output directory (default: directory of the bootloader)",
			},
			&cli.BoolFlag{
				Name:  "bin",
				Usage: "also write flat binary images",
			},
			&cli.StringFlag{
				Name:  "fill",
				Value: "0xFF",
				Usage: "byte used to fill gaps in flat binary images",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "reject unknown record types and non-contiguous images",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return patchAction(ctx, cmd, stdout, stderr)
		},
	}
}

func patchAction(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments <bootloader.hex> <variants.ini>, got %d", cmd.Args().Len())
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts, patcher.WithLogger(newLogger(stderr, cmd.Bool("verbose"))))

	job := patcher.Job{
		Bootloader: cmd.Args().Get(0),
		Definition: cmd.Args().Get(1),
		DestDir:    cmd.String("destination-dir"),
	}

	outputs, err := patcher.New(opts...).Run(ctx, job)
	if err != nil {
		return err
	}

	dir := job.DestDir
	if dir == "" {
		dir = filepath.Dir(job.Bootloader)
	}
	for _, out := range outputs {
		fmt.Fprintf(stdout, "%-40s %6d bytes  CRC32 0x%08X\n",
			filepath.Join(dir, out.HexFileName()), out.Image.Len(), out.CRC32)
	}
	return nil
}

// buildOptions translates the command flags to patcher options.
func buildOptions(cmd *cli.Command) ([]patcher.Option, error) {
	addr, err := parseAddress(cmd.String("config-location"))
	if err != nil {
		return nil, err
	}
	opts := []patcher.Option{patcher.WithConfigAddress(addr)}

	if cmd.Bool("bin") {
		fill, err := parseFill(cmd.String("fill"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, patcher.WithBinaryOutput(fill))
	}

	if cmd.Bool("strict") {
		opts = append(opts,
			patcher.WithDecodeOptions(ihex.WithStrictRecordTypes(true)),
			patcher.WithEncodeOptions(ihex.WithGapPolicy(ihex.RejectGaps)),
		)
	}

	return opts, nil
}

// parseAddress parses a Go integer literal (decimal, 0x, 0o or 0b) that
// fits segment addressing.
func parseAddress(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid config location %q: %w", s, err)
	}
	if n > ihex.MaxAddress {
		return 0, fmt.Errorf("config location 0x%X above 0x%X", n, ihex.MaxAddress)
	}
	return uint32(n), nil
}

func parseFill(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid fill byte %q: %w", s, err)
	}
	return byte(n), nil
}
