package repository

// KeyValueStore keeps small per-session blobs. Get returns
// errors.ErrNotFound for missing keys; Remove of a missing key succeeds.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
