package filearea

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/shagor/portfolio-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "cv-1-2.pdf", SafeName("cv-1-2.pdf"))
	assert.Equal(t, "", SafeName("../../etc/passwd"))
	assert.Equal(t, "", SafeName("uploads/cv.pdf"))
	assert.Equal(t, "", SafeName(`..\\cv.pdf`))
	assert.Equal(t, "cv.pdf", SafeName("  cv.pdf "))
	assert.Equal(t, "", SafeName(".."))
	assert.Equal(t, "", SafeName("my cv.pdf"))
	assert.Equal(t, "", SafeName(""))
}

// ===========================================================================
// Local
// ===========================================================================

func TestLocalArea_SaveLocateRemove(t *testing.T) {
	dir := t.TempDir()
	area, err := NewLocalArea(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, area.Save(ctx, "cv-1.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	loc := area.Locate(ctx, "cv-1.pdf")
	require.True(t, loc.Found())
	data, err := os.ReadFile(loc.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	entries, err := os.ReadDir(area.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, area.Remove(ctx, "cv-1.pdf"))
	assert.False(t, area.Locate(ctx, "cv-1.pdf").Found())
	assert.NoError(t, area.Remove(ctx, "cv-1.pdf"), "removing a missing file is fine")
}

func TestLocalArea_RejectsBadNames(t *testing.T) {
	area, err := NewLocalArea(t.TempDir())
	require.NoError(t, err)
	err = area.Save(context.Background(), "a b.pdf", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidName)
	err = area.Save(context.Background(), "../x", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.False(t, area.Locate(context.Background(), "..").Found())
	assert.False(t, area.Locate(context.Background(), "../x").Found())
}

// ===========================================================================
// S3
// ===========================================================================

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newS3(t *testing.T, opts appcfg.S3Config) (*S3Area, *fakeS3) {
	t.Helper()
	opts.Bucket = "portfolio"
	opts.AccessKeyID = "ak"
	opts.SecretAccessKey = "sk"
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	area, err := NewS3Area(opts)
	require.NoError(t, err)
	fake := &fakeS3{}
	area.client = fake
	return area, fake
}

func TestS3Area_SaveUsesPrefix(t *testing.T) {
	area, fake := newS3(t, appcfg.S3Config{Prefix: "cv"})
	require.NoError(t, area.Save(context.Background(), "cv-1.pdf", strings.NewReader("doc"), 3, "application/pdf"))

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "portfolio", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "cv/cv-1.pdf", aws.ToString(fake.puts[0].Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(fake.puts[0].ContentLength))
	assert.Equal(t, "doc", fake.bodies[0])

	require.NoError(t, area.Remove(context.Background(), "cv-1.pdf"))
	assert.Equal(t, []string{"cv/cv-1.pdf"}, fake.deletes)
}

func TestS3Area_URLs(t *testing.T) {
	virtual, _ := newS3(t, appcfg.S3Config{Region: "eu-west-1"})
	assert.Equal(t, "https://portfolio.s3.eu-west-1.amazonaws.com/cv.pdf", virtual.Locate(context.Background(), "cv.pdf").URL)

	custom, _ := newS3(t, appcfg.S3Config{Endpoint: "minio.local:9000"})
	assert.Equal(t, "https://minio.local:9000/portfolio/cv.pdf", custom.Locate(context.Background(), "cv.pdf").URL)

	public, _ := newS3(t, appcfg.S3Config{PublicURL: "https://cdn.example.com", Prefix: "files"})
	assert.Equal(t, "https://cdn.example.com/files/cv.pdf", public.Locate(context.Background(), "cv.pdf").URL)
}

func TestS3Area_Errors(t *testing.T) {
	area, fake := newS3(t, appcfg.S3Config{})
	fake.err = errors.New("boom")
	assert.Error(t, area.Save(context.Background(), "cv.pdf", strings.NewReader("x"), 1, ""))
	assert.ErrorIs(t, area.Save(context.Background(), "../x", strings.NewReader("x"), 1, ""), ErrInvalidName)

	_, err := NewS3Area(appcfg.S3Config{Bucket: "b"})
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := &appcfg.AppConfig{}
	cfg.Paths.Uploads = t.TempDir()
	cfg.Uploads.Backend = BackendLocal
	area, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, area.Backend())
}
