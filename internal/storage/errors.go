package storage

import "errors"

// Sentinel errors for storage operations.
// Check with errors.Is().
var (
	// ErrPathEscape indicates a dir or name would resolve outside the
	// local storage root.
	ErrPathEscape = errors.New("path escapes storage root")

	// ErrInvalidName indicates an empty or malformed dir or file name.
	ErrInvalidName = errors.New("invalid storage path component")

	// ErrCloudUnavailable indicates cloud storage construction failed on a
	// confirmed cloud host, where falling back to local storage would mask
	// a deployment misconfiguration.
	ErrCloudUnavailable = errors.New("cloud storage unavailable on cloud host")
)
