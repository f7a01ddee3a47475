package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/csquest/api/internal/csquest"
)

// envelope wraps the state JSON with a BLAKE2b-256 checksum of its exact
// bytes.
type envelope struct {
	Checksum string          `json:"checksum"`
	State    json.RawMessage `json:"state"`
}

func checksum(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func encode(s csquest.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Checksum: checksum(raw), State: raw})
}

// decode verifies and unpacks a blob. Blobs without an envelope are read
// as a bare snapshot, the format saves had before checksums.
func decode(data []byte) (csquest.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return csquest.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	raw := []byte(env.State)
	switch {
	case env.Checksum == "" && len(raw) == 0:
		if !bytes.Contains(data, []byte(`"playerStats"`)) {
			return csquest.Snapshot{}, fmt.Errorf("%w: no state", ErrCorrupt)
		}
		raw = data
	case env.Checksum != checksum(raw):
		return csquest.Snapshot{}, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	s, err := csquest.DecodeSnapshot(raw)
	if err != nil {
		return csquest.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s.Normalize(), nil
}
