package patcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type stagedFile struct {
	tmp    string
	dest   string
	backup string
	done   bool
}

type outputFile struct {
	name string
	data []byte
}

// Write writes the outputs to dir.
//
// All files are first staged as temporary files in dir. They are only
// renamed to their final names once every file has been staged. Files
// they replace are moved aside and restored if any rename fails, so a
// failure leaves dir as it was.
func (p *Patcher) Write(ctx context.Context, dir string, outputs []Output) (err error) {
	var staged []*stagedFile
	defer func() {
		if err != nil {
			rollback(staged)
		}
	}()

	for i := range outputs {
		out := &outputs[i]
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		files := []outputFile{{out.HexFileName(), out.Hex}}
		if out.Binary != nil {
			files = append(files, outputFile{out.BinaryFileName(), out.Binary})
		}

		for _, f := range files {
			tmp, err := p.stage(dir, f.name, f.data)
			if err != nil {
				return fmt.Errorf("write %s: %w", f.name, err)
			}
			staged = append(staged, &stagedFile{tmp: tmp, dest: filepath.Join(dir, f.name)})
		}
	}

	for _, s := range staged {
		if err := moveAside(s); err != nil {
			return fmt.Errorf("replace %s: %w", filepath.Base(s.dest), err)
		}
		if err := os.Rename(s.tmp, s.dest); err != nil {
			return fmt.Errorf("rename %s: %w", filepath.Base(s.dest), err)
		}
		s.done = true
	}

	for _, s := range staged {
		if s.backup != "" {
			_ = os.Remove(s.backup)
		}
		p.logInfo("created", "file", s.dest)
	}

	return nil
}

// stage writes data to a new temporary file in dir and returns its path.
func (p *Patcher) stage(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Chmod(tmp, p.config.FileMode); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return tmp, nil
}

// moveAside renames an existing destination file to a backup next to it.
func moveAside(s *stagedFile) error {
	info, err := os.Lstat(s.dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s.dest)
	}

	f, err := os.CreateTemp(filepath.Dir(s.dest), "."+filepath.Base(s.dest)+".*.bak")
	if err != nil {
		return err
	}
	backup := f.Name()
	_ = f.Close()

	if err := os.Rename(s.dest, backup); err != nil {
		_ = os.Remove(backup)
		return err
	}
	s.backup = backup
	return nil
}

// rollback removes staged and renamed files and puts replaced files back,
// newest first.
func rollback(staged []*stagedFile) {
	for i := len(staged) - 1; i >= 0; i-- {
		s := staged[i]
		if s.done {
			_ = os.Remove(s.dest)
		} else {
			_ = os.Remove(s.tmp)
		}
		if s.backup != "" {
			_ = os.Rename(s.backup, s.dest)
		}
	}
}
