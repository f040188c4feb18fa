package blob

import (
	"context"
	stderr "errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const _maxObjectSize = 8 << 20

// Config selects the bucket holding follower uploads.
type Config struct {
	Backend         string `yaml:"backend"`
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentialsFile"`
	// Endpoint overrides the storage API endpoint, e.g. for a local emulator.
	Endpoint string `yaml:"endpoint"`
}

// GCS is a Store backed by a Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket *storage.BucketHandle
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// NewGCS connects to the bucket named in cfg.
func NewGCS(ctx context.Context, cfg Config, logger *zap.SugaredLogger, stats tally.Scope) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("missing bucket name")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &GCS{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		logger: logger,
		stats:  stats,
	}, nil
}

// Fetch downloads object and encodes it as a data URL.
func (g *GCS) Fetch(ctx context.Context, object string) (string, error) {
	sw := g.stats.Timer("fetch").Start()
	defer sw.Stop()

	r, err := g.bucket.Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, _maxObjectSize))
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", object, err)
	}
	return DataURL(r.Attrs.ContentType, data), nil
}

// Exists reports whether object is present in the bucket.
func (g *GCS) Exists(ctx context.Context, object string) (bool, error) {
	_, err := g.bucket.Object(object).Attrs(ctx)
	if stderr.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading attributes of %q: %w", object, err)
	}
	return true, nil
}

// DeletePrefix removes every object under prefix. Deletion continues past individual failures.
func (g *GCS) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	it := g.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var errs error
	deleted := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, multierr.Append(errs, fmt.Errorf("listing %q: %w", prefix, err))
		}
		if err := g.bucket.Object(attrs.Name).Delete(ctx); err != nil && !stderr.Is(err, storage.ErrObjectNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("deleting %q: %w", attrs.Name, err))
			continue
		}
		deleted++
	}

	g.stats.Counter("deleted").Inc(int64(deleted))
	return deleted, errs
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
