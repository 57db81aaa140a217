package config

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a stable BLAKE3 digest of the document. Two documents
// that merge to the same agents, rules, and chains hash identically, which
// lets callers tell at a glance whether two processes route the same way.
func (d Document) Fingerprint() (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("config: fingerprint: %w", err)
	}
	hasher := blake3.New()
	hasher.Write(payload)
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
