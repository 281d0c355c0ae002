package config

import (
	"context"
	"net/http"

	"sigscan/internal/feed"
	"sigscan/internal/storage"
)

// Open returns the feed the section describes.
func (f Feed) Open(httpClient *http.Client) (feed.Feed, error) {
	var key []byte
	if !f.Plain {
		k, err := feed.ParseKey(f.Key)
		if err != nil {
			return nil, err
		}
		key = k
	}
	if f.File != "" {
		return feed.NewFileFeed(f.File, key), nil
	}
	return feed.NewClient(f.URL, key, httpClient), nil
}

// Source is a storage paired with the label it is reported under.
type Source struct {
	Label   string
	Storage storage.Storage
}

// Open returns the storages the section describes, in scan order.
func (d Dumps) Open(ctx context.Context, httpClient *http.Client) ([]Source, error) {
	switch {
	case d.Remote != "":
		return []Source{{Label: d.Remote, Storage: storage.NewClient(d.Remote, httpClient)}}, nil
	case d.S3.Bucket != "":
		s, err := storage.NewS3StorageFromConfig(ctx, d.S3.Bucket, d.S3.Prefix, storage.S3Options{
			Region:       d.S3.Region,
			Endpoint:     d.S3.Endpoint,
			UsePathStyle: d.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return []Source{{Label: "s3://" + d.S3.Bucket + "/" + d.S3.Prefix, Storage: s}}, nil
	}

	sources := make([]Source, 0, len(d.Dirs))
	for _, dir := range d.Dirs {
		sources = append(sources, Source{Label: dir, Storage: storage.NewFileSystemStorage(dir)})
	}
	return sources, nil
}
