package aws_s3

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client  *s3.Client
	S3Manager *manager.Uploader
	Config    *Config
	logger    *zap.Logger
}

type Option func(*S3)

func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		s.logger = logger
	}
}

var (
	clients   = make(map[string]*S3)
	clientsMu sync.Mutex
)

// NewClient creates an S3 storage instance. Clients are cached per access
// key so repeated lookups reuse the same connection pool. A non empty
// Endpoint targets S3 compatible services.
func NewClient(cf *Config, opts ...Option) (*S3, error) {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c := clients[cf.AccessKeyID]; c != nil {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cf.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cf.AccessKeyID, cf.AccessKeySecret, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cf.Endpoint != "" {
			o.BaseEndpoint = aws.String(cf.Endpoint)
		}
	})

	c := &S3{
		S3Client:  client,
		S3Manager: manager.NewUploader(client),
		Config:    cf,
	}
	for _, opt := range opts {
		opt(c)
	}
	clients[cf.AccessKeyID] = c
	return c, nil
}
