package patcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moffa90/go-blpatch/ihex"
	"github.com/moffa90/go-blpatch/variant"
)

// UnpatchedName is the output name of the re-encoded, unpatched bootloader.
const UnpatchedName = "unpatched"

// Merge returns a copy of base with data written at consecutive addresses
// starting at addr. Addresses not present in base are added. base is not
// modified.
func Merge(base *ihex.Image, data []byte, addr uint32) *ihex.Image {
	patched := base.Clone()
	patched.Write(addr, data)
	return patched
}

// Output is one generated bootloader image.
type Output struct {
	// Name is the variant name, or UnpatchedName
	Name string

	// Image is the patched memory image
	Image *ihex.Image

	// Hex is the Intel HEX encoding of Image
	Hex []byte

	// Binary is the flat image from its lowest address, gaps filled
	// (nil unless binary output is enabled)
	Binary []byte

	// CRC32 is computed over the flat image
	CRC32 uint32
}

// HexFileName returns the file name of the Intel HEX output.
func (o *Output) HexFileName() string {
	return FileName(o.Name, ".hex")
}

// BinaryFileName returns the file name of the flat binary output.
func (o *Output) BinaryFileName() string {
	return FileName(o.Name, ".bin")
}

// FileName returns the output file name for a variant.
func FileName(name, ext string) string {
	return "bootloader-" + name + ext
}

// Patcher produces patched bootloader images for a set of variants.
//
// Patcher is safe for concurrent use after initialization.
type Patcher struct {
	config Config
}

// New creates a new Patcher with the given options.
//
// Example:
//
//	p := patcher.New(
//	    patcher.WithConfigAddress(0x100),
//	    patcher.WithLogger(myLogger),
//	)
func New(opts ...Option) *Patcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Patcher{config: cfg}
}

// Config returns the effective configuration.
func (p *Patcher) Config() Config {
	return p.config
}

// Build produces the outputs for base and blocks: first the unpatched image
// re-encoded as is, then one image per block in block order. Each block is
// merged at the configured address. Variants are processed in parallel;
// base is only read.
//
// Example:
//
//	outputs, err := p.Build(ctx, base, blocks)
func (p *Patcher) Build(ctx context.Context, base *ihex.Image, blocks []variant.Block) ([]Output, error) {
	if base == nil {
		return nil, fmt.Errorf("base image cannot be nil")
	}
	if err := checkNames(blocks); err != nil {
		return nil, err
	}

	startTime := time.Now()
	total := len(blocks) + 1
	outputs := make([]Output, total)

	unpatched, err := p.render(UnpatchedName, base.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode unpatched image: %w", err)
	}
	outputs[0] = unpatched

	var (
		mu   sync.Mutex
		done = 1
	)
	report := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		done++
		p.reportProgress(Progress{
			Phase:       PhasePatching,
			Variant:     name,
			Current:     done,
			Total:       total,
			Percentage:  float64(done) / float64(total) * 100,
			ElapsedTime: time.Since(startTime),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("cancelled: %w", err)
			}

			merged := Merge(base, block.Data, p.config.ConfigAddress)
			out, err := p.render(block.Variant, merged)
			if err != nil {
				return fmt.Errorf("variant %s: %w", block.Variant, err)
			}
			outputs[i+1] = out

			p.logDebug("variant patched",
				"variant", block.Variant,
				"address", fmt.Sprintf("0x%X", p.config.ConfigAddress),
				"block_size", len(block.Data),
				"crc32", fmt.Sprintf("0x%08X", out.CRC32),
			)
			report(block.Variant)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outputs, nil
}

// render encodes img and computes its flat form.
func (p *Patcher) render(name string, img *ihex.Image) (Output, error) {
	hex, err := ihex.EncodeToBytes(img, p.config.EncodeOptions...)
	if err != nil {
		return Output{}, err
	}

	flat, err := Flatten(img, p.config.FillByte)
	if err != nil {
		return Output{}, err
	}

	out := Output{
		Name:  name,
		Image: img,
		Hex:   hex,
		CRC32: Checksum(flat.Data),
	}
	if p.config.BinaryOutput {
		out.Binary = flat.Data
	}
	return out, nil
}

// checkNames rejects variant names that are unusable as file names or that
// collide with another output.
func checkNames(blocks []variant.Block) error {
	seen := map[string]string{strings.ToLower(UnpatchedName): UnpatchedName}
	for _, b := range blocks {
		if b.Variant == "" || b.Variant == "." || b.Variant == ".." || strings.ContainsAny(b.Variant, `/\`) {
			return &OutputNameError{Name: b.Variant}
		}
		// Case-insensitive file systems would merge names that differ in case.
		key := strings.ToLower(b.Variant)
		if first, ok := seen[key]; ok {
			return &OutputConflictError{
				FileName: FileName(b.Variant, ".hex"),
				First:    first,
				Second:   b.Variant,
			}
		}
		seen[key] = b.Variant
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (p *Patcher) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Patcher) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Patcher) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Patcher) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
