package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put    *s3.PutObjectInput
	putErr error

	body   io.ReadCloser
	getErr error

	deleted   string
	deleteErr error

	headErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeS3) GetObject(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: f.body}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

func (f *fakeS3) HeadObject(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

type fakePresigner struct {
	url     string
	err     error
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, _ *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: f.url}, nil
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()
	api := &fakeS3{}
	c := NewClientWithAPI(api, &fakePresigner{}, "bucket")

	err := c.Upload(context.Background(), "jobs/1/jd.pdf", bytes.NewReader([]byte("%PDF-")), 5, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "bucket", aws.ToString(api.put.Bucket))
	assert.Equal(t, "jobs/1/jd.pdf", aws.ToString(api.put.Key))
	assert.Equal(t, "application/pdf", aws.ToString(api.put.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(api.put.ContentLength))

	c = NewClientWithAPI(&fakeS3{putErr: errors.New("denied")}, &fakePresigner{}, "bucket")
	err = c.Upload(context.Background(), "k", bytes.NewReader(nil), -1, "application/pdf")
	assert.ErrorContains(t, err, "failed to upload object")
}

func TestClient_DownloadDelete(t *testing.T) {
	t.Parallel()
	api := &fakeS3{body: io.NopCloser(bytes.NewReader([]byte("abc")))}
	c := NewClientWithAPI(api, &fakePresigner{}, "bucket")

	rc, err := c.Download(context.Background(), "k")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "abc", string(data))

	require.NoError(t, c.Delete(context.Background(), "k"))
	assert.Equal(t, "k", api.deleted)

	c = NewClientWithAPI(&fakeS3{getErr: errors.New("x"), deleteErr: errors.New("y")}, &fakePresigner{}, "bucket")
	_, err = c.Download(context.Background(), "k")
	assert.ErrorContains(t, err, "failed to get object")
	assert.ErrorContains(t, c.Delete(context.Background(), "k"), "failed to delete object")
}

func TestClient_Exists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headErr error
		want    bool
		wantErr bool
	}{
		{name: "exists", want: true},
		{name: "not found", headErr: &types.NotFound{}},
		{name: "no such key", headErr: &types.NoSuchKey{}},
		{name: "failure", headErr: errors.New("timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewClientWithAPI(&fakeS3{headErr: tt.headErr}, &fakePresigner{}, "bucket")
			ok, err := c.Exists(context.Background(), "k")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestClient_PresignGet(t *testing.T) {
	t.Parallel()
	p := &fakePresigner{url: "https://bucket.s3.amazonaws.com/k?X-Amz-Signature=1"}
	c := NewClientWithAPI(&fakeS3{}, p, "bucket")

	got, err := c.PresignGet(context.Background(), "k", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, p.url, got)
	assert.Equal(t, 15*time.Minute, p.expires)

	c = NewClientWithAPI(&fakeS3{}, &fakePresigner{err: errors.New("no creds")}, "bucket")
	_, err = c.PresignGet(context.Background(), "k", time.Minute)
	assert.ErrorContains(t, err, "failed to presign object")
}
