// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrSourceUnavailable is returned when the dataset file or object cannot be
// opened.
var ErrSourceUnavailable = errors.New("dataset source unavailable")

// Source yields the raw CSV bytes of the launch dataset.
type Source interface {
	// Open returns a reader over the CSV. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)

	// String describes the source for logs and error messages.
	String() string
}

// ParseSource returns a GCSSource for "gs://bucket/object" locations and a
// FileSource for anything else.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrSourceUnavailable)
	}
	if !strings.HasPrefix(location, "gs://") {
		return FileSource{Path: location}, nil
	}

	rest := strings.TrimPrefix(location, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("%w: malformed GCS location %q, want gs://bucket/object", ErrSourceUnavailable, location)
	}
	return GCSSource{Bucket: bucket, Object: object}, nil
}

// =============================================================================
// Local File
// =============================================================================

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

// Open opens the file for reading.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return s.Path
}

// =============================================================================
// Google Cloud Storage
// =============================================================================

// GCSSource reads the dataset from a Cloud Storage object.
//
// When CredentialsFile is empty the client falls back to Application Default
// Credentials.
type GCSSource struct {
	Bucket          string
	Object          string
	CredentialsFile string
}

// Open creates a storage client and returns a reader over the object. Closing
// the reader also closes the client.
func (s GCSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	var opts []option.ClientOption
	if s.CredentialsFile != "" {
		if _, err := os.Stat(s.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: credentials file not found at path: %s", ErrSourceUnavailable, s.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCS storage client: %v", ErrSourceUnavailable, err)
	}

	reader, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s, err)
	}
	return &gcsReadCloser{Reader: reader, client: client}, nil
}

func (s GCSSource) String() string {
	return "gs://" + s.Bucket + "/" + s.Object
}

// gcsReadCloser ties the storage client lifetime to the object reader.
type gcsReadCloser struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReadCloser) Close() error {
	readErr := r.Reader.Close()
	clientErr := r.client.Close()
	return errors.Join(readErr, clientErr)
}
