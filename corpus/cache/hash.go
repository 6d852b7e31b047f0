package cache

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("digestius-highwayhash-key-000000")

// Hash creates a content hash for change detection
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err = h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
