package schema

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/cenkalti/backoff/v3"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JiscSD/openenum/s3"
)

// Source fetches the raw bytes of a schema document.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileSource reads documents from a file system.
type FileSource struct {
	Fs afero.Fs
}

func (s FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return afero.ReadFile(fs, strings.TrimPrefix(location, "file://"))
}

// S3Source downloads documents from s3:// URIs.
type S3Source struct {
	Storage s3.ObjectStorage
}

func (s S3Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	if s.Storage == nil {
		return nil, errors.New("object storage is not configured")
	}
	buf := aws.NewWriteAtBuffer([]byte{})
	if _, err := s.Storage.Download(ctx, buf, location); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTTPSource downloads documents over HTTP. Server errors and transport
// failures are retried; client errors are not.
type HTTPSource struct {
	Client *http.Client

	// NewBackOff returns the retry policy used for each fetch. When nil an
	// exponential policy capped at two minutes is used.
	NewBackOff func() backoff.BackOff
}

func (s HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	var retry backoff.BackOff
	if s.NewBackOff != nil {
		retry = s.NewBackOff()
	} else {
		retry = &backoff.ExponentialBackOff{
			InitialInterval:     500 * time.Millisecond,
			RandomizationFactor: 0.5,
			Multiplier:          1.5,
			MaxInterval:         10 * time.Second,
			MaxElapsedTime:      2 * time.Minute,
			Clock:               backoff.SystemClock,
		}
		retry.Reset()
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(
				fmt.Errorf("unexpected status code: %d (client error)", resp.StatusCode),
			)
		case resp.StatusCode >= 500:
			return fmt.Errorf("unexpected status code: %d (server error)", resp.StatusCode)
		}
		body, err = ioutil.ReadAll(resp.Body)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(retry, ctx)); err != nil {
		return nil, errors.Wrapf(err, "fetching %s", location)
	}
	return body, nil
}

// MultiSource dispatches on the scheme of the location. Locations without a
// scheme, or with file://, go to Local.
type MultiSource struct {
	Local Source
	S3    Source
	HTTP  Source
}

func (s MultiSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	var src Source
	scheme := ""
	if u, err := url.Parse(location); err == nil && len(u.Scheme) > 1 {
		scheme = strings.ToLower(u.Scheme)
	}
	switch scheme {
	case "", "file":
		src = s.Local
	case s3.Scheme:
		src = s.S3
	case "http", "https":
		src = s.HTTP
	default:
		return nil, errors.Errorf("unsupported scheme %q in %s", scheme, location)
	}
	if src == nil {
		return nil, errors.Errorf("no source configured for %s", location)
	}
	return src.Fetch(ctx, location)
}
