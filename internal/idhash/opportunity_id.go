// Package idhash derives deterministic identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// OpportunityID computes a deterministic opportunity id using SHA256.
// Formula: SHA256(pool_a|pool_b|timestamp)
// Returns hex-encoded hash (64 characters). Unique per scan because the
// discovery timestamp participates; not stable across re-scans.
func OpportunityID(poolA, poolB string, timestamp int64) string {
	data := fmt.Sprintf("%s|%s|%d", poolA, poolB, timestamp)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
