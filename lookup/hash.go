// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lookup

import "hash/maphash"

// Hash is the content hash of an immutable resource descriptor. Two
// descriptors that compare equal must produce the same Hash.
type Hash uint64

var hashSeed = maphash.MakeSeed()

// HashBytes hashes a canonical byte encoding of a descriptor. Callers are
// responsible for encoding their descriptor deterministically (field order
// matters); this package only provides the hash primitive, since the
// descriptor shapes it interns (renderpasses, pipelines, layouts, ...) vary
// across call sites.
func HashBytes(data []byte) Hash {
	return Hash(maphash.Bytes(hashSeed, data))
}
