package utils

import "strings"

const (
	CredentialPrefix    = "sk"
	CredentialMinLength = 20
)

// ResolveCredential picks the request key over the environment key and
// checks its format. Nothing is sent to the provider here.
func ResolveCredential(requestKey, envKey string) (string, error) {
	key := strings.TrimSpace(requestKey)
	if key == "" {
		key = strings.TrimSpace(envKey)
	}
	if key == "" {
		return "", ErrMissingCredential
	}
	if err := ValidateCredentialFormat(key); err != nil {
		return "", err
	}
	return key, nil
}

func ValidateCredentialFormat(key string) error {
	if !strings.HasPrefix(key, CredentialPrefix) || len(key) < CredentialMinLength {
		return ErrInvalidCredential
	}
	return nil
}

// MaskCredential keeps enough of a key to tell keys apart in logs.
func MaskCredential(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
