// Package assets stores uploaded files on an S3-compatible object store
// and hands back public URLs. The service layer only ever sees the URL.
package assets

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/userkit/user-service/config"
)

// S3Store uploads objects to a single bucket on an S3-compatible endpoint.
type S3Store struct {
	client   *s3.Client
	endpoint string
	bucket   string
	folder   string
	width    int
	height   int
	crop     string
}

// NewS3Store builds the S3 client from configuration. Works against MinIO
// and other S3-compatible hosts via the BaseEndpoint override.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Assets.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Assets.AccessKey,
			cfg.Assets.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Assets.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Assets.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:   client,
		endpoint: strings.TrimRight(cfg.Assets.Endpoint, "/"),
		bucket:   cfg.Assets.Bucket,
		folder:   cfg.Assets.Folder,
		width:    cfg.Assets.Width,
		height:   cfg.Assets.Height,
		crop:     cfg.Assets.Crop,
	}, nil
}

// Upload stores the file under a random key in the configured folder and
// returns the public URL. The crop/size hints travel as object metadata
// for the downstream image resizer.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := path.Join(s.folder, uuid.New().String()+path.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"width":  strconv.Itoa(s.width),
			"height": strconv.Itoa(s.height),
			"crop":   s.crop,
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}
