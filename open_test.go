package nhc

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = "A1BG\tA2M\t0.995\nA2M\tNAT2\t0.991\n"

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0644))

	in, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer in.Close()

	got, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, sampleTable, string(got))
	assert.Equal(t, DataTypeNoCompression, in.DataType)
}

func TestOpenGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleTable))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "network.txt.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	in, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer in.Close()

	got, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, sampleTable, string(got))
	assert.Equal(t, DataTypeGzip, in.DataType)
}

func TestSniff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0644))

	dt, _, err := Sniff(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, DataTypeNoCompression, dt)

	// Nothing was cached: once the file is gone, sniffing fails.
	require.NoError(t, os.Remove(path))
	_, _, err = Sniff(context.Background(), path, nil)
	assert.Error(t, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), nil)
	assert.Error(t, err)
}

func TestOpenGSWithoutClient(t *testing.T) {
	_, err := Open(context.Background(), "gs://bucket/network.txt", nil)
	assert.Error(t, err)
}

func TestSplitGSPath(t *testing.T) {
	bucket, object, err := splitGSPath("gs://nhc-data/ref/Data_NHC_Network.txt")
	require.NoError(t, err)
	assert.Equal(t, "nhc-data", bucket)
	assert.Equal(t, "ref/Data_NHC_Network.txt", object)

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := splitGSPath(bad)
		assert.Error(t, err, bad)
	}
}

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		head     []byte
		expected DataType
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0x00}, DataTypeGzip},
		{[]byte{0x50, 0x4b, 0x03, 0x04, 0x14}, DataTypeZip},
		{[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, DataTypeXZ},
		{[]byte{0x1f, 0x9d, 0x90}, DataTypeLZW},
		{[]byte{0x78, 0x9c, 0x4b, 0x4c}, DataTypeZ},
		{[]byte("x^2\tgenes\n"), DataTypeNoCompression},
		{[]byte("BZh91AY"), DataTypeBZip2},
		{[]byte("case\tgenes\n"), DataTypeNoCompression},
		{[]byte{0x1f}, DataTypeNoCompression},
		{nil, DataTypeNoCompression},
	} {
		br := bufio.NewReader(bytes.NewReader(v.head))
		assert.Equal(t, v.expected, DetectDataType(br), "%x", v.head)
	}
}

func TestMaybeDecompressZlib(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleTable))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, dt, err := MaybeDecompress(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, DataTypeZ, dt)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, sampleTable, string(got))
}

func TestMaybeDecompressRejectsLZW(t *testing.T) {
	_, dt, err := MaybeDecompress(bufio.NewReader(bytes.NewReader([]byte{0x1f, 0x9d, 0x90, 0x63, 0x61})))
	require.Error(t, err)
	assert.Equal(t, DataTypeLZW, dt)
	assert.Contains(t, err.Error(), "not supported")
}

func TestNeedsStorageClient(t *testing.T) {
	assert.False(t, NeedsStorageClient("cases.txt", "~/data/net.txt"))
	assert.True(t, NeedsStorageClient("cases.txt", "gs://bucket/net.txt"))
}

func TestExpandHome(t *testing.T) {
	path, err := ExpandHome("/abs/path.txt")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.txt", path)
}
