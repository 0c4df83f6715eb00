package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for strings that are not Solana account addresses.
var ErrInvalidAddress = errors.New("invalid solana address")

// PublicKeyLength is the decoded size of a Solana account address.
const PublicKeyLength = 32

var solanaAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// ValidateSolanaAddress checks the base58 alphabet and length, then decodes the address
// to make sure it is exactly one public key long.
func ValidateSolanaAddress(address string) error {
	if !solanaAddressRe.MatchString(address) {
		return fmt.Errorf("%w: %q does not match the base58 address format", ErrInvalidAddress, address)
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != PublicKeyLength {
		return fmt.Errorf("%w: decodes to %d bytes, want %d", ErrInvalidAddress, len(decoded), PublicKeyLength)
	}
	return nil
}

// NormalizeAddress trims whitespace around a user-supplied address.
func NormalizeAddress(address string) string {
	return strings.TrimSpace(address)
}
