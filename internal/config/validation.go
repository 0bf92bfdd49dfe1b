package config

import (
	"fmt"
	"strings"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// Cloud identifiers are optional (local-only is a valid setup), but when
	// present they must satisfy the service's naming rules so a typo fails
	// here instead of as an opaque HTTP 400 at first use.
	if c.StorageAccount != "" && !isValidAccountName(c.StorageAccount) {
		return fmt.Errorf("%w: %q must be 3-24 lowercase letters and digits", ErrInvalidStorageAccount, c.StorageAccount)
	}

	if c.StorageContainer != "" && !isValidContainerName(c.StorageContainer) {
		return fmt.Errorf("%w: %q must be 3-63 lowercase letters, digits and hyphens", ErrInvalidStorageContainer, c.StorageContainer)
	}

	if c.StorageTTLMinutes < 1 || c.StorageTTLMinutes > MaxStorageTTLMinutes {
		return fmt.Errorf("%w: must be between 1 and %d minutes, got %d", ErrInvalidStorageTTL, MaxStorageTTLMinutes, c.StorageTTLMinutes)
	}

	if c.LocalRoot == "" {
		return fmt.Errorf("%w: storage_local_root cannot be empty", ErrInvalidLocalRoot)
	}

	if c.AgentsDir == "" || strings.ContainsAny(c.AgentsDir, `/\`) {
		return fmt.Errorf("%w: must be a single directory name, got %q", ErrInvalidAgentsDir, c.AgentsDir)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// isValidAccountName checks cloud storage account naming rules:
// 3-24 characters, lowercase letters and digits only.
func isValidAccountName(s string) bool {
	if len(s) < 3 || len(s) > 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// isValidContainerName checks container naming rules: 3-63 characters,
// lowercase letters, digits and single hyphens, starting and ending with a
// letter or digit.
func isValidContainerName(s string) bool {
	if len(s) < 3 || len(s) > 63 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	prevHyphen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			prevHyphen = false
		default:
			return false
		}
	}
	return true
}
