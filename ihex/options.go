package ihex

// GapPolicy selects how the encoder handles a gap between two addresses.
type GapPolicy int

const (
	// SplitOnGap starts a new Data record at the first address after a gap,
	// emitting an Extended Segment Address record if the address is outside
	// the current segment window.
	SplitOnGap GapPolicy = iota

	// RejectGaps fails the encoding with a NonContiguousImageError.
	RejectGaps
)

// Config holds the codec configuration.
type Config struct {
	// VerifyChecksums enables checksum verification while decoding
	VerifyChecksums bool

	// StrictRecordTypes rejects record types other than 00-03 while decoding
	StrictRecordTypes bool

	// RecordSize is the maximum number of data bytes per encoded Data record
	RecordSize int

	// GapPolicy selects how the encoder handles non-contiguous images
	GapPolicy GapPolicy
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		VerifyChecksums:   true,
		StrictRecordTypes: false,
		RecordSize:        DefaultRecordSize,
		GapPolicy:         SplitOnGap,
	}
}

func newConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option is a functional option for configuring Decode and Encode.
type Option func(*Config)

// WithChecksumVerification enables or disables checksum verification on decode.
// Default is true.
//
// Example:
//
//	img, err := ihex.Decode(r, ihex.WithChecksumVerification(false))
func WithChecksumVerification(verify bool) Option {
	return func(c *Config) {
		c.VerifyChecksums = verify
	}
}

// WithStrictRecordTypes makes Decode fail on record types it does not know
// instead of skipping them. Default is false.
func WithStrictRecordTypes(strict bool) Option {
	return func(c *Config) {
		c.StrictRecordTypes = strict
	}
}

// WithRecordSize sets the number of data bytes per encoded Data record.
// Values outside 1-255 are ignored. Default is 16.
//
// Example:
//
//	err := ihex.Encode(w, img, ihex.WithRecordSize(32))
func WithRecordSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= MaxRecordSize {
			c.RecordSize = size
		}
	}
}

// WithGapPolicy selects how Encode treats gaps in the image.
// Default is SplitOnGap.
func WithGapPolicy(policy GapPolicy) Option {
	return func(c *Config) {
		c.GapPolicy = policy
	}
}
