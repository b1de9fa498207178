package rawarchive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryArchive(t *testing.T) {
	archive := NewMemoryArchive()
	require.NoError(t, archive.Put(context.Background(), "raw/2025/06/01/a.txt", "not json"))

	got, ok := archive.Get("raw/2025/06/01/a.txt")
	require.True(t, ok)
	require.Equal(t, "not json", got)

	_, ok = archive.Get("missing")
	require.False(t, ok)
}

func TestHostOnly(t *testing.T) {
	cases := map[string]string{
		"https://acct.r2.cloudflarestorage.com/bucket": "acct.r2.cloudflarestorage.com",
		"http://localhost:9000":                        "localhost:9000",
		" minio:9000 ":                                 "minio:9000",
	}
	for in, want := range cases {
		require.Equal(t, want, hostOnly(in), in)
	}
}

func TestNewS3ArchiveRequiresBucket(t *testing.T) {
	_, err := NewS3Archive("localhost:9000", "k", "s", "", "", nil)
	require.Error(t, err)
}
