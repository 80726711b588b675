package patcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moffa90/go-blpatch/variant"
)

const testBootloader = ":020000000102FB\n:00000001FF\n"

const testDefinition = `
[CONFIG_SECTION]
mode  = 0, 1
flags = 1, 1, 5

[v1]
mode = 0x0A
`

func writeJob(t *testing.T, definition string) Job {
	t.Helper()
	dir := t.TempDir()

	job := Job{
		Bootloader: filepath.Join(dir, "bootloader.hex"),
		Definition: filepath.Join(dir, "variants.ini"),
	}
	if err := os.WriteFile(job.Bootloader, []byte(testBootloader), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(job.Definition, []byte(definition), 0o644); err != nil {
		t.Fatal(err)
	}
	return job
}

func TestRun(t *testing.T) {
	job := writeJob(t, testDefinition)

	var phases []string
	p := New(
		WithConfigAddress(0x02),
		WithProgressCallback(func(pr Progress) {
			phases = append(phases, pr.Phase)
		}),
	)

	outputs, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("Run() returned %d outputs, want 2", len(outputs))
	}

	dir := filepath.Dir(job.Bootloader)
	tests := []struct {
		file string
		want string
	}{
		{"bootloader-unpatched.hex", ":020000000102FB\n:0400000300000000F9\n:00000001FF\n"},
		{"bootloader-v1.hex", ":0400000001020A05EA\n:0400000300000000F9\n:00000001FF\n"},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(dir, tt.file))
		if err != nil {
			t.Errorf("ReadFile(%s) error = %v", tt.file, err)
			continue
		}
		if string(data) != tt.want {
			t.Errorf("%s =\n%s\nwant\n%s", tt.file, data, tt.want)
		}
	}

	wantPhases := []string{PhaseDecoding, PhaseCompiling, PhasePatching, PhasePatching, PhaseWriting, PhaseComplete}
	if strings.Join(phases, ",") != strings.Join(wantPhases, ",") {
		t.Errorf("phases = %v, want %v", phases, wantPhases)
	}
}

func TestRunDestDir(t *testing.T) {
	job := writeJob(t, testDefinition)
	job.DestDir = t.TempDir()

	if _, err := New().Run(context.Background(), job); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(job.DestDir, "bootloader-v1.hex")); err != nil {
		t.Errorf("output missing from destination: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(job.Bootloader), "bootloader-v1.hex")); err == nil {
		t.Error("output written next to the bootloader")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		mutate     func(job *Job)
		check      func(t *testing.T, err error)
		wantErr    string
	}{
		{
			name:       "missing bootloader",
			definition: testDefinition,
			mutate: func(job *Job) {
				job.Bootloader = filepath.Join(filepath.Dir(job.Bootloader), "missing.hex")
			},
			wantErr: "decode",
		},
		{
			name:       "missing definition",
			definition: testDefinition,
			mutate: func(job *Job) {
				job.Definition = filepath.Join(filepath.Dir(job.Definition), "missing.ini")
			},
			wantErr: "load",
		},
		{
			name:       "missing value",
			definition: "[CONFIG_SECTION]\nmode = 0, 1\n\n[v1]\n",
			check: func(t *testing.T, err error) {
				var missing *variant.MissingFieldError
				if !errors.As(err, &missing) {
					t.Fatalf("error = %v, want *variant.MissingFieldError", err)
				}
			},
		},
		{
			name:       "overlapping fields",
			definition: "[CONFIG_SECTION]\na = 0, 2\nb = 1, 1\n\n[v1]\na = 1\nb = 2\n",
			check: func(t *testing.T, err error) {
				var overlap *variant.FieldOverlapError
				if !errors.As(err, &overlap) {
					t.Fatalf("error = %v, want *variant.FieldOverlapError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := writeJob(t, tt.definition)
			if tt.mutate != nil {
				tt.mutate(&job)
			}

			logger := &recordingLogger{}
			_, err := New(WithLogger(logger)).Run(context.Background(), job)
			if err == nil {
				t.Fatal("Run() expected error, got nil")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, err)
			}

			matches, _ := filepath.Glob(filepath.Join(filepath.Dir(job.Bootloader), "bootloader-*"))
			if len(matches) != 0 {
				t.Errorf("outputs written on failure: %v", matches)
			}
		})
	}
}
