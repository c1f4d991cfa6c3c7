package filearea

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/shagor/portfolio-core/internal/config"
)

// objectAPI is the slice of the S3 client the area uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Area struct {
	client    objectAPI
	bucket    string
	region    string
	prefix    string
	endpoint  *url.URL
	publicURL string
	pathStyle bool
}

func NewS3Area(opts appcfg.S3Config) (*S3Area, error) {
	if opts.Bucket == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSuffix(opts.Endpoint, "/")
	pathStyle := opts.PathStyle
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		// custom endpoints (minio, r2) are addressed path style
		pathStyle = true
	} else {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", opts.Region)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid s3 endpoint: %s", endpoint)
	}

	client := s3.NewFromConfig(aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &S3Area{
		client:    client,
		bucket:    opts.Bucket,
		region:    opts.Region,
		prefix:    opts.Prefix,
		endpoint:  parsed,
		publicURL: opts.PublicURL,
		pathStyle: pathStyle,
	}, nil
}

func (a *S3Area) Backend() string { return BackendS3 }

func (a *S3Area) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	key, err := a.objectKey(name)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := a.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

// Remove relies on DeleteObject succeeding for absent keys.
func (a *S3Area) Remove(ctx context.Context, name string) error {
	key, err := a.objectKey(name)
	if err != nil {
		return err
	}
	_, err = a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (a *S3Area) Locate(_ context.Context, name string) Location {
	key, err := a.objectKey(name)
	if err != nil {
		return Location{}
	}
	return Location{URL: a.objectURL(key)}
}

func (a *S3Area) objectKey(name string) (string, error) {
	name = SafeName(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if a.prefix == "" {
		return name, nil
	}
	return a.prefix + "/" + name, nil
}

func (a *S3Area) objectURL(key string) string {
	escaped := encodeObjectKey(key)
	if a.publicURL != "" {
		return a.publicURL + "/" + escaped
	}
	base := strings.TrimSuffix(a.endpoint.Path, "/")
	if a.pathStyle {
		return a.endpoint.Scheme + "://" + a.endpoint.Host + base + "/" + a.bucket + "/" + escaped
	}
	host := a.endpoint.Host
	if !strings.HasPrefix(strings.ToLower(host), strings.ToLower(a.bucket)+".") {
		host = a.bucket + "." + host
	}
	return a.endpoint.Scheme + "://" + host + base + "/" + escaped
}

func encodeObjectKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
