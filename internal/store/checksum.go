package store

import (
	"bytes"
	"crypto/sha256"
)

func checksumOf(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func validChecksum(data, stored []byte) bool {
	return bytes.Equal(checksumOf(data), stored)
}
