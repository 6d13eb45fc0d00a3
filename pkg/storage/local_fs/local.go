package local_fs

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/notefield/notebook-service/pkg/fileurl"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/archives"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(cf *Config) (*LocalFS, error) {
	if cf.SavePath == "" {
		cf.SavePath = "storage/archives"
	}
	return &LocalFS{Config: cf}, nil
}

func (p *LocalFS) fullPath(pathKey string) (string, error) {
	base := fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/") + p.Config.CustomPath
	joined, ok := fileurl.SafeJoin(base, pathKey)
	if !ok {
		return "", errors.Errorf("local_fs: unsafe path %q", pathKey)
	}
	return joined, nil
}

// SendFile writes a stream to the local save path.
func (p *LocalFS) SendFile(pathKey string, file io.Reader, cType string, modTime time.Time) (string, error) {
	dst, err := p.fullPath(pathKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if !modTime.IsZero() {
		_ = os.Chtimes(dst, modTime, modTime)
	}
	return pathKey, nil
}

// SendContent writes bytes to the local save path.
func (p *LocalFS) SendContent(pathKey string, content []byte, modTime time.Time) (string, error) {
	dst, err := p.fullPath(pathKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if !modTime.IsZero() {
		_ = os.Chtimes(dst, modTime, modTime)
	}
	return pathKey, nil
}

// GetContent reads bytes from the local save path.
func (p *LocalFS) GetContent(pathKey string) ([]byte, error) {
	src, err := p.fullPath(pathKey)
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return content, nil
}

// Delete removes a stored file. Missing files are not an error.
func (p *LocalFS) Delete(pathKey string) error {
	dst, err := p.fullPath(pathKey)
	if err != nil {
		return errors.Wrap(err, "local_fs")
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}
