// Package archive exports audit runs as JSON documents to a local directory or an S3 bucket.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

const (
	TargetFile = "file"
	TargetS3   = "s3"

	DefaultRegion = "us-east-1"
)

type Exporter interface {
	// Export writes the run and returns where it was stored.
	Export(ctx context.Context, run domain.AuditRun) (string, error)
}

type Settings struct {
	Target string
	// Dir is the output directory for file exports (default: current directory)
	Dir     string
	Bucket  string
	Prefix  string
	Profile string
	Region  string
}

func DefaultSettings() Settings {
	return Settings{
		Target: TargetFile,
		Dir:    ".",
		Prefix: "audits/",
		Region: DefaultRegion,
	}
}

func NewFromSettings(ctx context.Context, s Settings) (Exporter, error) {
	switch s.Target {
	case TargetFile, "":
		return NewFileExporter(s.Dir), nil
	case TargetS3:
		if s.Bucket == "" {
			return nil, fmt.Errorf("%w: archive bucket is required for s3 exports", domain.ErrValidation)
		}
		client, err := NewS3Client(ctx, s.Profile, s.Region)
		if err != nil {
			return nil, err
		}
		return NewS3Exporter(client, s.Bucket, s.Prefix), nil
	default:
		return nil, fmt.Errorf("%w: unknown archive target %q", domain.ErrValidation, s.Target)
	}
}

// Encode renders the run in the same JSON shape the HTTP API returns.
func Encode(run domain.AuditRun) ([]byte, error) {
	data, err := json.MarshalIndent(adapters.MapAuditRunDomainToApi(run), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode audit run %d: %w", run.ID, err)
	}
	return append(data, '\n'), nil
}

func ObjectName(run domain.AuditRun) string {
	return fmt.Sprintf("audit-%d-%s.json", run.ID, run.Timestamp.UTC().Format("20060102T150405Z"))
}

type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) *FileExporter {
	if dir == "" {
		dir = "."
	}
	return &FileExporter{dir: dir}
}

func (e *FileExporter) Export(ctx context.Context, run domain.AuditRun) (string, error) {
	data, err := Encode(run)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	name := filepath.Join(e.dir, ObjectName(run))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("path", name).Int64("audit_id", run.ID).Msg("audit exported")
	return name, nil
}

// PutObjectAPI is the subset of the S3 client used for exports.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func NewS3Client(ctx context.Context, profile, region string) (*s3.Client, error) {
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

type S3Exporter struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Exporter(client PutObjectAPI, bucket, prefix string) *S3Exporter {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Exporter{client: client, bucket: bucket, prefix: prefix}
}

func (e *S3Exporter) Export(ctx context.Context, run domain.AuditRun) (string, error) {
	data, err := Encode(run)
	if err != nil {
		return "", err
	}

	key := path.Join(e.prefix, ObjectName(run))
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(e.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awssdk.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload audit run %d to s3://%s/%s: %w", run.ID, e.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", e.bucket, key)
	zerolog.Ctx(ctx).Info().Str("location", location).Int64("audit_id", run.ID).Msg("audit exported")
	return location, nil
}
