package storage

// Batch accumulates writes for atomic application. Put/Delete never touch
// the underlying store until Commit is called, so a flush that builds a
// batch and commits it once never leaves a reorg-safe index half-written.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by DBs that can hand out an atomic Batch.
// PrefixDB.NewBatch falls back to non-atomic buffering when its inner DB
// does not satisfy this interface.
type Batcher interface {
	NewBatch() Batch
}
