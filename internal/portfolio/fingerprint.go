package portfolio

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

// Fingerprint is a BLAKE2b-256 digest of the document's JSON encoding. Two
// structurally identical documents always share a fingerprint.
func Fingerprint(doc models.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
