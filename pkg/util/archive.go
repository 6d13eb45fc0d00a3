package util

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"sort"
)

// ZipBytes creates a zip archive in memory from a map of file names to contents.
// Entries are written in sorted name order so output is deterministic.
func ZipBytes(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		writer, err := archive.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := writer.Write(files[name]); err != nil {
			return nil, err
		}
	}

	if err := archive.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZipBytesToFile creates a zip archive on disk from a map of file names to contents.
func ZipBytesToFile(files map[string][]byte, target string) error {
	data, err := ZipBytes(files)
	if err != nil {
		return err
	}
	return os.WriteFile(target, data, 0644)
}

// UnzipBytes expands a zip archive into a map of file names to contents.
// Directory entries are skipped. maxFileSize bounds each entry; <= 0 means no bound.
func UnzipBytes(data []byte, maxFileSize int64) (map[string][]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte)
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		var content []byte
		if maxFileSize > 0 {
			content, err = io.ReadAll(io.LimitReader(rc, maxFileSize))
		} else {
			content, err = io.ReadAll(rc)
		}
		rc.Close()
		if err != nil {
			return nil, err
		}
		files[f.Name] = content
	}
	return files, nil
}
