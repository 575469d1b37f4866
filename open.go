package nhc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// Input is an opened, possibly decompressed, tabular source.
type Input struct {
	io.Reader

	// Path is the location the input was opened from.
	Path string

	// DataType is the compression detected on the raw stream.
	DataType DataType

	closers []io.Closer
}

// Close releases the decompressor (if any) and the underlying file or
// object reader.
func (in *Input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Open opens a local path, a ~/ path, or (when client is non-nil) a gs://
// URL, and transparently decompresses it.
func Open(ctx context.Context, path string, client *storage.Client) (*Input, error) {
	raw, err := openRaw(ctx, path, client)
	if err != nil {
		return nil, err
	}

	in := &Input{Path: path, closers: []io.Closer{raw}}

	br := bufio.NewReaderSize(raw, sniffBytes)
	r, dt, err := MaybeDecompress(br)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	in.DataType = dt
	if c, ok := r.(io.Closer); ok && dt != DataTypeNoCompression {
		in.closers = append(in.closers, c)
	}

	in.Reader = bufio.NewReaderSize(r, sniffBytes)

	return in, nil
}

// Sniff opens path just long enough to report its compression and the
// delimiter its decompressed head most likely uses.
func Sniff(ctx context.Context, path string, client *storage.Client) (DataType, rune, error) {
	in, err := Open(ctx, path, client)
	if err != nil {
		return DataTypeInvalid, 0, err
	}
	defer in.Close()

	return in.DataType, PeekDelimiter(in.Reader.(*bufio.Reader)), nil
}

func openRaw(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, fmt.Errorf("%s: a storage client is required for gs:// paths", path)
		}

		bucketName, objectName, err := splitGSPath(path)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return rdr, nil
	}

	local, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// splitGSPath detects the bucket and the path to the actual object.
func splitGSPath(path string) (string, string, error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// NeedsStorageClient reports whether any of the paths point at Google
// Storage.
func NeedsStorageClient(paths ...string) bool {
	for _, p := range paths {
		if strings.HasPrefix(p, "gs://") {
			return true
		}
	}

	return false
}
