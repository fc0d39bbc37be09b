package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Access code alphabet: uppercase letters and digits with the easily confused
// characters (I, L, O, 0, 1) removed, since codes are transcribed by hand.
const accessCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// AccessCodeLength is the fixed length of class access codes.
const AccessCodeLength = 6

// generateAccessCode returns a fresh random code. Uniqueness is not checked
// here; callers insert and retry on conflict.
func generateAccessCode() (string, error) {
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	code := make([]byte, AccessCodeLength)

	for i := range code {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		code[i] = accessCodeAlphabet[index.Int64()]
	}

	return string(code), nil
}
