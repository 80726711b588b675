package patcher

import "time"

// Phases reported through Progress.Phase.
const (
	PhaseDecoding  = "decoding"
	PhaseCompiling = "compiling"
	PhasePatching  = "patching"
	PhaseWriting   = "writing"
	PhaseComplete  = "complete"
)

// Progress contains information about the build progress.
// Passed to ProgressCallback during Build and Run.
type Progress struct {
	// Phase describes the current operation phase:
	//   "decoding"  - Reading the bootloader image
	//   "compiling" - Compiling the variant definition
	//   "patching"  - Merging and encoding variant images
	//   "writing"   - Writing output files
	//   "complete"  - Operation completed successfully
	Phase string

	// Variant is the variant that just finished patching (patching phase only)
	Variant string

	// Current is the number of images finished so far
	Current int

	// Total is the number of images to produce, unpatched one included
	Total int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the operation started
	ElapsedTime time.Duration
}

// ProgressCallback is called to report progress. Calls are serialized, but
// may come from different goroutines. Implementations should return quickly.
//
// Example:
//
//	p := patcher.New(
//	    patcher.WithProgressCallback(func(p patcher.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d/%d\n",
//	            p.Phase, p.Percentage, p.Current, p.Total)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the patcher.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	p := patcher.New(patcher.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
