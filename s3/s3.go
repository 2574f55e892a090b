// Package s3 moves schema documents and generated sources in and out of S3.
package s3

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// Scheme is the URI scheme handled by this package.
const Scheme = "s3"

// ObjectStorage is a S3-compatible storage interface.
type ObjectStorage interface {
	Download(ctx context.Context, w io.WriterAt, URI string) (int64, error)
	Upload(ctx context.Context, r io.Reader, URI string) error
}

// ObjectStorageImpl is our implementation of the ObjectStorage interface.
type ObjectStorageImpl struct {
	downloader *s3manager.Downloader
	uploader   *s3manager.Uploader
}

var _ ObjectStorage = (*ObjectStorageImpl)(nil)

// New returns a pointer to a new ObjectStorageImpl.
func New(sess *session.Session) *ObjectStorageImpl {
	return NewWithClient(s3.New(sess))
}

// NewWithClient builds the storage around an existing client.
func NewWithClient(client s3iface.S3API) *ObjectStorageImpl {
	return &ObjectStorageImpl{
		downloader: s3manager.NewDownloaderWithClient(client),
		uploader:   s3manager.NewUploaderWithClient(client),
	}
}

// Download writes the contents of a remote object into the given writer.
func (s *ObjectStorageImpl) Download(ctx context.Context, w io.WriterAt, URI string) (int64, error) {
	bucket, key, err := getBucketAndKey(URI)
	if err != nil {
		return -1, err
	}
	req := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	n, err := s.downloader.DownloadWithContext(ctx, w, req)
	if err != nil {
		return n, errors.Wrapf(err, "downloading %s", URI)
	}
	return n, nil
}

// Upload stores the contents of r under the given URI.
func (s *ObjectStorageImpl) Upload(ctx context.Context, r io.Reader, URI string) error {
	bucket, key, err := getBucketAndKey(URI)
	if err != nil {
		return err
	}
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return errors.Wrapf(err, "uploading %s", URI)
}

// Join appends elem to the key of an s3:// URI.
func Join(URI string, elem string) string {
	return strings.TrimSuffix(URI, "/") + "/" + strings.TrimPrefix(elem, "/")
}

func getBucketAndKey(URI string) (bucket string, key string, err error) {
	u, err := url.Parse(URI)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != Scheme {
		return "", "", errors.Errorf("unexpected scheme %q in %s", u.Scheme, URI)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Hostname() == "" || key == "" {
		return "", "", errors.Errorf("bucket or key missing in %s", URI)
	}
	return u.Hostname(), key, nil
}
