package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dkravets/mediakeeper/internal/mediahost/imagehost"
	sc "github.com/dkravets/mediakeeper/internal/server/config"
)

type fakeVideoHost struct {
	url string
	err error

	gotPassthrough string
}

func (f *fakeVideoHost) CreateUploadURL(ctx context.Context, passthrough string) (string, error) {
	f.gotPassthrough = passthrough
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newUploadService(vh VideoUploadURLProvider) *UploadService {
	cfg := &sc.Config{
		ImageHostUploadPreset: "media",
		ImageHostAPISecret:    "secret",
		S3Region:              "us-east-1",
		S3RootUser:            "minioadmin",
		S3RootPassword:        "minioadmin",
		S3BaseEndpoint:        "http://127.0.0.1:9000",
		S3Bucket:              "media",
	}
	return NewUploadService(cfg, vh)
}

func TestIssueImageSignature_SignsCurrentTimestamp(t *testing.T) {
	orig := nowUnix
	t.Cleanup(func() { nowUnix = orig })
	nowUnix = func() int64 { return 1700000000 }

	s := newUploadService(nil)
	sig := s.IssueImageSignature()

	if sig.Timestamp != 1700000000 {
		t.Fatalf("unexpected timestamp: %d", sig.Timestamp)
	}
	want := imagehost.SignUpload(1700000000, "media", "secret")
	if sig.Signature != want {
		t.Fatalf("signature mismatch: got %q want %q", sig.Signature, want)
	}
}

func TestIssueVideoUploadURL_PassesIdentifier(t *testing.T) {
	vh := &fakeVideoHost{url: "https://storage.example/upload/up1"}
	s := newUploadService(vh)

	url, err := s.IssueVideoUploadURL(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("IssueVideoUploadURL error: %v", err)
	}
	if url != "https://storage.example/upload/up1" {
		t.Fatalf("unexpected url: %q", url)
	}
	if vh.gotPassthrough != "abc-123" {
		t.Fatalf("identifier not forwarded: %q", vh.gotPassthrough)
	}
}

func TestIssueVideoUploadURL_HostError(t *testing.T) {
	vh := &fakeVideoHost{err: errors.New("host down")}
	s := newUploadService(vh)

	if _, err := s.IssueVideoUploadURL(context.Background(), "abc-123"); err == nil {
		t.Fatal("expected error from host")
	}
}

func TestGetRandomStorageKey_UniqueAndPrefixed(t *testing.T) {
	a := GetRandomStorageKey()
	b := GetRandomStorageKey()
	if a == b {
		t.Fatal("expected unique storage keys")
	}
	if !strings.HasPrefix(a, "media/") {
		t.Fatalf("unexpected key prefix: %q", a)
	}
}

func TestGetPresignedPutUrl_UsesConfiguredEndpoint(t *testing.T) {
	s := newUploadService(nil)

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint != nil {
			capturedBaseEndpoint = *opts.BaseEndpoint
		}
		return &s3.Client{}
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var capturedBucket, capturedKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		capturedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/put"}, nil
	}

	key, url, err := s.GetPresignedPutUrl(context.Background())
	if err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if url != "https://signed.example/put" {
		t.Fatalf("unexpected url: %q", url)
	}
	if key != capturedKey {
		t.Fatalf("returned key %q differs from presigned key %q", key, capturedKey)
	}
	if capturedBucket != "media" {
		t.Fatalf("unexpected bucket: %q", capturedBucket)
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("base endpoint not applied: %q", capturedBaseEndpoint)
	}
}

func TestGetPresignedGetUrl_SignsRequestedKey(t *testing.T) {
	s := newUploadService(nil)

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var capturedBucket, capturedKey string
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		capturedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/get"}, nil
	}

	url, err := s.GetPresignedGetUrl(context.Background(), "media/2026/1/1/key")
	if err != nil {
		t.Fatalf("GetPresignedGetUrl error: %v", err)
	}
	if url != "https://signed.example/get" {
		t.Fatalf("unexpected url: %q", url)
	}
	if capturedKey != "media/2026/1/1/key" {
		t.Fatalf("unexpected key: %q", capturedKey)
	}
	if capturedBucket != "media" {
		t.Fatalf("unexpected bucket: %q", capturedBucket)
	}
}

func TestGetPresignedGetUrl_PresignError(t *testing.T) {
	s := newUploadService(nil)

	origLoad := loadDefaultAWSConfig
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}

	if _, err := s.GetPresignedGetUrl(context.Background(), "media/2026/1/1/key"); err == nil {
		t.Fatal("expected presign error")
	}
}
