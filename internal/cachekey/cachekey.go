// Package cachekey provides a deterministic fingerprint for a resume/job
// pair, used to key cached LLM score reports.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key returns a stable fingerprint for the given resume bytes and job
// description. The same pair always yields the same key; either side
// changing yields a new one. Job text is trimmed so surrounding whitespace
// does not bust the cache.
func Key(content []byte, jobDescription string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(jobDescription)))
	return hex.EncodeToString(h.Sum(nil))
}
