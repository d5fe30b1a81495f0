// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed SHA256 hash does not match
	// the expected hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrChecksumMissing indicates the requested filename was not found in
	// checksums.txt.
	ErrChecksumMissing = errors.New("asset not found in checksums")

	// errNoValidEntries indicates the checksums file had no parseable lines.
	errNoValidEntries = errors.New("no valid checksum entries found")
)

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can classify with errors.Is.
type ChecksumError struct {
	Filename string
	Expected string
	Got      string
}

// Error shows both hash values for debugging.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// FindChecksum parses a checksums.txt body in sha256sum output format
// ("{hex}  {filename}", two spaces) and returns the hash recorded for
// filename. Unparseable lines are skipped; a file with no valid entries at
// all is an error.
func FindChecksum(r io.Reader, filename string) (string, error) {
	var (
		found string
		valid int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		hash, name, ok := strings.Cut(line, "  ")
		name = strings.TrimSpace(name)
		if !ok || name == "" || !isValidHexHash(hash) {
			continue
		}
		valid++

		if name == filename {
			found = strings.ToLower(hash)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading checksums: %w", err)
	}
	if valid == 0 {
		return "", errNoValidEntries
	}
	if found == "" {
		return "", fmt.Errorf("%s: %w", filename, ErrChecksumMissing)
	}
	return found, nil
}

// VerifyFile compares the SHA256 hash of the file at path with
// expectedHash, case-insensitively. A mismatch yields a *ChecksumError.
func VerifyFile(path, expectedHash string) error {
	got, err := hashFile(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expectedHash) {
		return &ChecksumError{
			Filename: path,
			Expected: strings.ToLower(expectedHash),
			Got:      got,
		}
	}

	return nil
}

// hashFile streams the file through SHA256 and returns the lowercase hex
// digest.
func hashFile(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// isValidHexHash checks if s is a 64-character hex-encoded SHA256 hash.
func isValidHexHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
