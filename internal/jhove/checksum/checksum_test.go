package checksum

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute_AllFourAlgorithms(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	sums, err := Compute(bytes.NewReader(data), CRC32, MD5, SHA1, SHA256)
	require.NoError(t, err)

	crc := crc32.NewIEEE()
	crc.Write(data)
	require.Equal(t, hex.EncodeToString(crc.Sum(nil)), sums[string(CRC32)])

	md := md5.Sum(data)
	require.Equal(t, hex.EncodeToString(md[:]), sums[string(MD5)])

	sh1 := sha1.Sum(data)
	require.Equal(t, hex.EncodeToString(sh1[:]), sums[string(SHA1)])

	sh256 := sha256.Sum256(data)
	require.Equal(t, hex.EncodeToString(sh256[:]), sums[string(SHA256)])
}

func TestCompute_UnknownAlgorithmIgnored(t *testing.T) {
	sums, err := Compute(bytes.NewReader([]byte("x")), Algorithm("bogus"), MD5)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Contains(t, sums, string(MD5))
}
