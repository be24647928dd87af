package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dkravets/mediakeeper/internal/mediahost/imagehost"
	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
	sc "github.com/dkravets/mediakeeper/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	nowUnix = func() int64 { return time.Now().Unix() }
)

// VideoUploadURLProvider issues one-shot direct upload URLs keyed by a
// passthrough identifier.
type VideoUploadURLProvider interface {
	CreateUploadURL(ctx context.Context, passthrough string) (string, error)
}

// UploadService mints the grants clients need before they push bytes
// anywhere: image upload signatures, video direct-upload URLs, and
// presigned S3 URLs for the self-hosted storage backend.
type UploadService struct {
	config    *sc.Config
	videoHost VideoUploadURLProvider
}

func NewUploadService(cfg *sc.Config, videoHost VideoUploadURLProvider) *UploadService {
	return &UploadService{config: cfg, videoHost: videoHost}
}

// IssueImageSignature signs the upload parameter set for the configured
// preset at the current timestamp. The client forwards both values to the
// image host unchanged.
func (s *UploadService) IssueImageSignature() *imagehost.Signature {
	ts := nowUnix()
	return &imagehost.Signature{
		Signature: imagehost.SignUpload(ts, s.config.ImageHostUploadPreset, s.config.ImageHostAPISecret),
		Timestamp: ts,
	}
}

// IssueVideoUploadURL obtains a direct upload URL from the video host,
// carrying the client's correlation identifier as passthrough metadata.
func (s *UploadService) IssueVideoUploadURL(ctx context.Context, identifier string) (string, error) {
	url, err := s.videoHost.CreateUploadURL(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("error issuing video upload url: %w", err)
	}
	return url, nil
}

var _ VideoUploadURLProvider = (*videohost.Client)(nil)

// GetRandomStorageKey builds a date-prefixed random object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *UploadService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutUrl returns a storage key and a presigned PUT URL for the
// self-hosted backend.
func (s *UploadService) GetPresignedPutUrl(ctx context.Context) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	// Presigned PUT
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedGetUrl returns a presigned GET URL for an object previously
// stored under key.
func (s *UploadService) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	// Presigned GET
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
