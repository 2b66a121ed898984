package application

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"trainingevents/internal/domain/entities"
)

// checkinAlphabet excludes 0, O, 1 and I.
const checkinAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCheckinCode returns a random code of entities.CheckinCodeLength characters.
func GenerateCheckinCode() (string, error) {
	code := make([]byte, entities.CheckinCodeLength)
	max := big.NewInt(int64(len(checkinAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate checkin code: %w", err)
		}
		code[i] = checkinAlphabet[n.Int64()]
	}
	return string(code), nil
}
