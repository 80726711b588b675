// Package patcher produces per-variant bootloader images.
//
// # Overview
//
// This package orchestrates the complete patch sequence:
//   - Decoding the bootloader Intel HEX image
//   - Compiling the variant definition into configuration blocks
//   - Merging each block into a copy of the bootloader image
//   - Encoding every image back to Intel HEX
//   - Writing all files, or none when anything fails
//
// # Basic Usage
//
// The simplest way to patch a bootloader:
//
//	p := patcher.New()
//
//	outputs, err := p.Run(context.Background(), patcher.Job{
//	    Bootloader: "out/bootloader.hex",
//	    Definition: "patch_bootloader.ini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// This writes out/bootloader-unpatched.hex and one
// out/bootloader-<variant>.hex per variant.
//
// # Working In Memory
//
// Build and Merge work on images without touching the file system:
//
//	base, _ := ihex.DecodeFile("bootloader.hex")
//	def, _ := variant.Load("variants.ini")
//	blocks, _ := variant.Compile(def)
//
//	outputs, err := p.Build(ctx, base, blocks)
//	for _, out := range outputs {
//	    fmt.Printf("%s: %d bytes, CRC32 0x%08X\n", out.Name, out.Image.Len(), out.CRC32)
//	}
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	p := patcher.New(
//	    patcher.WithConfigAddress(0x100),
//	    patcher.WithProgressCallback(progressFunc),
//	    patcher.WithLogger(myLogger),
//	    patcher.WithConcurrency(4),
//	    patcher.WithBinaryOutput(0xFF),
//	    patcher.WithEncodeOptions(ihex.WithGapPolicy(ihex.RejectGaps)),
//	)
//
// # Logging
//
// Integrate with any logging framework by implementing Logger:
//
//	type MyLogger struct {
//	    logger *log.Logger
//	}
//
//	func (l *MyLogger) Debug(msg string, kv ...interface{}) {
//	    l.logger.Println("DEBUG:", msg, kv)
//	}
//
//	func (l *MyLogger) Info(msg string, kv ...interface{}) {
//	    l.logger.Println("INFO:", msg, kv)
//	}
//
//	func (l *MyLogger) Error(msg string, kv ...interface{}) {
//	    l.logger.Println("ERROR:", msg, kv)
//	}
//
// Variants are patched concurrently, so the logger must be safe for
// concurrent use.
//
// # Error Handling
//
// Errors from the ihex and variant packages are returned wrapped with
// context and can be inspected with errors.As. This package adds:
//   - OutputConflictError: two outputs map to the same file
//   - OutputNameError: a variant name is not usable in a file name
package patcher
