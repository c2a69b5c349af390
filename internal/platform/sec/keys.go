// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateSecureToken returns a hex-encoded, cryptographically random token.
//
// # Parameters
//   - byteLength: Entropy size in bytes. The returned string is twice as long.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashKey hashes a plain-text service key using the bcrypt algorithm.
//
// Used for AI service keys: only the hash is stored, the plaintext is shown
// to the operator exactly once at generation time.
func HashKey(plainTextKey string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash key: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckKeyHash compares a plain-text service key with its stored hash.
func CheckKeyHash(plainTextKey, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextKey))
	return err == nil
}
