package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Base58 without the 0/O/I/l ambiguity, the usual length band for a
// Solana public key.
var walletPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

func walletRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(walletPattern),
	}
}
