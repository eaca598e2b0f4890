// SPDX-License-Identifier: Apache-2.0

package python

import (
	"crypto/md5"  //nolint:gosec // indexes still publish md5 fragments
	"crypto/sha1" //nolint:gosec // ditto
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// HashlibAlgorithmsGuaranteed is Python `hashlib.algorithms_guaranteed`; the
// checksum names that a simple-repository-API URL fragment may use are drawn
// from this set.
//
//nolint:gochecknoglobals // Would be 'const'.
var HashlibAlgorithmsGuaranteed = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
	// The sha3 and blake2 family are guaranteed in Python too, but no
	// index publishes fragments with them; absent here means the
	// fragment is skipped, not that the download fails.
}
