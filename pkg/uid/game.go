package uid

import (
	"encoding/hex"

	"lukechampine.com/frand"
)

// GenerateGameID returns 128 random bits, hex encoded.
func GenerateGameID() string {
	return hex.EncodeToString(frand.Bytes(16))
}

// GenerateTokenID is used as the jti of game tokens.
func GenerateTokenID() string {
	return hex.EncodeToString(frand.Bytes(8))
}
