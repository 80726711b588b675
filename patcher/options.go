package patcher

import (
	"os"
	"runtime"

	"github.com/moffa90/go-blpatch/ihex"
)

// DefaultConfigAddress is the address the configuration block is merged at.
const DefaultConfigAddress = 0x100

// Config holds the patcher configuration.
type Config struct {
	// ProgressCallback is called to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// ConfigAddress is where each compiled block is merged into the image
	ConfigAddress uint32

	// Concurrency limits how many variants are patched at the same time
	Concurrency int

	// BinaryOutput additionally produces a flat binary per image
	BinaryOutput bool

	// FillByte pads the gaps of flat binaries
	FillByte byte

	// FileMode is the permission of written files
	FileMode os.FileMode

	// DecodeOptions are passed to ihex.Decode
	DecodeOptions []ihex.Option

	// EncodeOptions are passed to ihex.Encode
	EncodeOptions []ihex.Option
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ConfigAddress: DefaultConfigAddress,
		Concurrency:   runtime.NumCPU(),
		BinaryOutput:  false,
		FillByte:      0xFF,
		FileMode:      0o644,
	}
}

// Option is a functional option for configuring the Patcher.
type Option func(*Config)

// WithProgressCallback sets a callback function to track build progress.
//
// Example:
//
//	p := patcher.New(
//	    patcher.WithProgressCallback(func(p patcher.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the patcher operations.
//
// Example:
//
//	p := patcher.New(patcher.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithConfigAddress sets the address compiled blocks are merged at.
// Default is 0x100.
//
// Example:
//
//	p := patcher.New(patcher.WithConfigAddress(0x3000))
func WithConfigAddress(addr uint32) Option {
	return func(c *Config) {
		c.ConfigAddress = addr
	}
}

// WithConcurrency limits the number of variants patched in parallel.
// Values below 1 are ignored. Default is the number of CPUs.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// WithBinaryOutput enables flat binary output, padding gaps with fill.
//
// Example:
//
//	p := patcher.New(patcher.WithBinaryOutput(0xFF))
func WithBinaryOutput(fill byte) Option {
	return func(c *Config) {
		c.BinaryOutput = true
		c.FillByte = fill
	}
}

// WithFileMode sets the permission bits of written files. Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(c *Config) {
		c.FileMode = mode
	}
}

// WithDecodeOptions sets the options used to decode the bootloader image.
func WithDecodeOptions(opts ...ihex.Option) Option {
	return func(c *Config) {
		c.DecodeOptions = opts
	}
}

// WithEncodeOptions sets the options used to encode output images.
//
// Example:
//
//	p := patcher.New(patcher.WithEncodeOptions(ihex.WithGapPolicy(ihex.RejectGaps)))
func WithEncodeOptions(opts ...ihex.Option) Option {
	return func(c *Config) {
		c.EncodeOptions = opts
	}
}
