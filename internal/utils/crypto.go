// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CatalogETag is a weak entity tag for one catalog version and query.
func CatalogETag(version uint64, query string) string {
	return fmt.Sprintf(`W/"%d-%s"`, version, HashString(query)[:16])
}
