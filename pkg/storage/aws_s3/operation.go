package aws_s3

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/notefield/notebook-service/pkg/fileurl"
)

func (p *S3) objectKey(pathKey string) string {
	return fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + pathKey
}

// SendFile uploads a stream.
func (p *S3) SendFile(pathKey string, file io.Reader, cType string, modTime time.Time) (string, error) {
	ctx := context.Background()
	fileKey := p.objectKey(pathKey)

	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.Config.BucketName),
		Key:         aws.String(fileKey),
		Body:        file,
		ContentType: aws.String(cType),
	})
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}

	return pathKey, nil
}

// SendContent uploads bytes through the upload manager and waits until the
// object is visible.
func (p *S3) SendContent(pathKey string, content []byte, modTime time.Time) (string, error) {
	ctx := context.Background()
	bucket := p.Config.BucketName
	fileKey := p.objectKey(pathKey)

	input := &s3.PutObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(fileKey),
		Body:              bytes.NewReader(content),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}
	if _, err := p.S3Manager.Upload(ctx, input); err != nil {
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			return "", errors.Wrap(noBucket, "aws_s3")
		}
		return "", errors.Wrap(err, "aws_s3")
	}

	err := s3.NewObjectExistsWaiter(p.S3Client).Wait(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	}, time.Minute)
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}

	return pathKey, nil
}

// GetContent downloads an object's bytes.
func (p *S3) GetContent(pathKey string) ([]byte, error) {
	ctx := context.Background()

	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.objectKey(pathKey)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return content, nil
}
