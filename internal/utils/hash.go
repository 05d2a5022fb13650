package utils

import "golang.org/x/crypto/bcrypt"

// HashPasscode returns a bcrypt hash of a gate passcode.
func HashPasscode(passcode string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	return string(hashed), err
}

// CheckPasscode reports whether passcode matches hashed.
func CheckPasscode(hashed, passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(passcode)) == nil
}
