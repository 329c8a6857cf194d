// Package buffer provides a fixed-capacity circular sample buffer.
//
// All buffers in the processing pipeline are sized once at construction and
// never grow; [Ring] makes that explicit and tracks whether a full window of
// samples has been written, since windowed statistics and transforms are only
// trustworthy once the backing window has filled at least once.
package buffer
