package auth

import (
	"crypto/rand"
	"math/big"
)

// GenerateOTP returns a random 6-digit passcode in [100000, 999999].
func GenerateOTP() (uint32, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return uint32(n.Int64() + 100000), nil
}
