package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/VladmirB/sigmah/internal/command"
)

// IDGenerator creates correlation ids for log lines of one call.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator yields time-ordered ids, so log lines sort by call start.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Fingerprint returns a short digest of the request's RFC 8785 canonical
// JSON. Identical requests share a fingerprint whatever their field order
// on the wire.
func Fingerprint(cmd *command.GetSites) (string, error) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:8]), nil
}
