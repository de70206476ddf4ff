package export

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
)

// writeAtomic streams into path+".tmp" and renames it over path once fn and
// the flush succeed, so readers never see a partial file.
func writeAtomic(path string, fn func(w *bufio.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, 1<<16)
	if err := fn(w); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

// WriteJSONAtomic writes v as indented JSON with a trailing newline.
func WriteJSONAtomic(path string, v any, indent string) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w *bufio.Writer) error {
		if _, err := w.Write(data); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
}
