package samples

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ObjectDownloader fetches whole objects from an S3-compatible store
type ObjectDownloader interface {
	DownloadFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader resolves a sample source to its values.
// Sources are absolute local paths or s3://bucket/key URIs.
type Loader struct {
	objects ObjectDownloader
}

// NewLoader creates a loader. objects may be nil, in which case only local
// paths can be loaded.
func NewLoader(objects ObjectDownloader) *Loader {
	return &Loader{objects: objects}
}

// Load reads every sample from source in file order
func (l *Loader) Load(ctx context.Context, source string) ([]float64, error) {
	var (
		values []float64
		err    error
	)
	if strings.HasPrefix(source, "s3://") {
		values, err = l.loadObject(ctx, source)
	} else {
		values, err = l.loadFile(source)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("source", source).Int("samples", len(values)).Msg("Loaded samples")
	return values, nil
}

func (l *Loader) loadFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

func (l *Loader) loadObject(ctx context.Context, source string) ([]float64, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid object URI %q: %w", ErrIO, source, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("%w: object URI %q needs a bucket and a key", ErrIO, source)
	}
	if l.objects == nil {
		return nil, fmt.Errorf("%w: %s: object storage is not configured", ErrIO, source)
	}

	data, err := l.objects.DownloadFile(ctx, u.Host, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	values, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return values, nil
}
