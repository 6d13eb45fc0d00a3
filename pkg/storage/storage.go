// Package storage selects the archive storage backend for notebook export
// and import.
package storage

import (
	"io"
	"time"

	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/storage/aws_s3"
	"github.com/notefield/notebook-service/pkg/storage/local_fs"
)

type Type = string

const LOCAL Type = "localfs"
const S3 Type = "s3"

var StorageTypeMap = map[Type]bool{
	LOCAL: true,
	S3:    true,
}

// Config is the unified storage configuration.
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	CustomPath string `yaml:"custom-path"`

	// Cloud storage (S3 and compatible endpoints)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/archives"`
}

type Storager interface {
	SendFile(pathKey string, file io.Reader, cType string, modTime time.Time) (string, error)
	SendContent(pathKey string, content []byte, modTime time.Time) (string, error)
	GetContent(pathKey string) ([]byte, error)
	Delete(pathKey string) error
}

func NewClient(config *Config) (Storager, error) {
	if config == nil {
		return nil, code.ErrorStorageFail
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	}
	return nil, code.ErrorStorageFail
}
