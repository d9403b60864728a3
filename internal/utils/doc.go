// Package utils provides shared utility functions.
//
// These utilities are used across multiple packages and include:
//   - Snapshot label derivation from commit messages
//   - Branch naming and sanitization
//   - Common data structure operations
package utils
