package patcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/moffa90/go-blpatch/ihex"
	"github.com/moffa90/go-blpatch/variant"
)

// Job describes one complete patch run.
type Job struct {
	// Bootloader is the path of the Intel HEX bootloader image
	Bootloader string

	// Definition is the path of the variant definition file
	Definition string

	// DestDir is the output directory; defaults to the bootloader's directory
	DestDir string
}

// Run performs the complete patch sequence:
//  1. Decode the bootloader image
//  2. Load and compile the variant definition
//  3. Merge every variant block and encode the images
//  4. Write all outputs, or none on failure
//
// Example:
//
//	outputs, err := p.Run(ctx, patcher.Job{
//	    Bootloader: "bootloader.hex",
//	    Definition: "variants.ini",
//	})
func (p *Patcher) Run(ctx context.Context, job Job) ([]Output, error) {
	startTime := time.Now()

	// Phase 1: Decode bootloader
	p.reportProgress(Progress{Phase: PhaseDecoding})

	base, err := ihex.DecodeFile(job.Bootloader, p.config.DecodeOptions...)
	if err != nil {
		p.logError("decode failed", "file", job.Bootloader, "error", err)
		return nil, fmt.Errorf("decode %s: %w", job.Bootloader, err)
	}

	lo, hi, _ := base.Bounds()
	p.logDebug("bootloader decoded",
		"file", job.Bootloader,
		"bytes", base.Len(),
		"low", fmt.Sprintf("0x%05X", lo),
		"high", fmt.Sprintf("0x%05X", hi),
	)

	// Phase 2: Compile variants
	p.reportProgress(Progress{Phase: PhaseCompiling, ElapsedTime: time.Since(startTime)})

	def, err := variant.Load(job.Definition)
	if err != nil {
		p.logError("definition failed", "file", job.Definition, "error", err)
		return nil, fmt.Errorf("load %s: %w", job.Definition, err)
	}
	blocks, err := variant.Compile(def)
	if err != nil {
		p.logError("compile failed", "file", job.Definition, "error", err)
		return nil, fmt.Errorf("compile %s: %w", job.Definition, err)
	}

	p.logDebug("variants compiled",
		"variants", len(blocks),
		"fields", def.Layout.Len(),
	)

	// Phase 3: Patch and encode
	p.reportProgress(Progress{
		Phase:       PhasePatching,
		Total:       len(blocks) + 1,
		ElapsedTime: time.Since(startTime),
	})

	outputs, err := p.Build(ctx, base, blocks)
	if err != nil {
		p.logError("build failed", "error", err)
		return nil, err
	}

	// Phase 4: Write
	dir := job.DestDir
	if dir == "" {
		dir = filepath.Dir(job.Bootloader)
	}

	p.reportProgress(Progress{
		Phase:       PhaseWriting,
		Current:     len(outputs),
		Total:       len(outputs),
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})

	if err := p.Write(ctx, dir, outputs); err != nil {
		p.logError("write failed", "dir", dir, "error", err)
		return nil, err
	}

	// Complete
	p.reportProgress(Progress{
		Phase:       PhaseComplete,
		Current:     len(outputs),
		Total:       len(outputs),
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})

	p.logInfo("patching complete",
		"variants", len(blocks),
		"dir", dir,
		"elapsed", time.Since(startTime).String(),
	)

	return outputs, nil
}
