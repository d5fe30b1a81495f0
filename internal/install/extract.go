// SPDX-License-Identifier: MPL-2.0

package install

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxBinaryBytes is the upper bound on extracted binary size (500 MB).
// Prevents decompression bombs when extracting a binary from a release
// archive.
const maxBinaryBytes = 500 << 20

// ExtractBinary pulls the archive member whose base name matches
// binaryName (with or without .exe) out of a .tgz/.tar.gz or .zip archive
// and writes it to destPath with the executable bit set. Directory
// components inside the archive are ignored; only the base name is
// matched.
func ExtractBinary(archivePath, binaryName, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		return extractFromZip(archivePath, binaryName, destPath)
	case strings.HasSuffix(archivePath, ".tgz"), strings.HasSuffix(archivePath, ".tar.gz"):
		return extractFromTarGz(archivePath, binaryName, destPath)
	}
	return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
}

func extractFromTarGz(archivePath, binaryName, destPath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if !matchesBinary(hdr.Name, binaryName) {
			continue
		}
		return writeBinary(tr, destPath)
	}

	return fmt.Errorf("binary %q not found in %s", binaryName, filepath.Base(archivePath))
}

func extractFromZip(archivePath, binaryName, destPath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, file := range zr.File {
		if file.FileInfo().IsDir() || !matchesBinary(file.Name, binaryName) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("opening archive member: %w", err)
		}
		err = writeBinary(rc, destPath)
		_ = rc.Close()
		return err
	}

	return fmt.Errorf("binary %q not found in %s", binaryName, filepath.Base(archivePath))
}

// matchesBinary reports whether an archive member path names the wanted
// binary, tolerating a .exe suffix for Windows archives.
func matchesBinary(memberPath, binaryName string) bool {
	base := filepath.Base(filepath.FromSlash(memberPath))
	return base == binaryName || base == binaryName+".exe"
}

// writeBinary streams an archive member to destPath with a size bound and
// marks it executable.
func writeBinary(r io.Reader, destPath string) (err error) {
	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating binary file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing binary file: %w", cerr)
		}
	}()

	n, err := io.Copy(out, io.LimitReader(r, maxBinaryBytes+1))
	if err != nil {
		return fmt.Errorf("writing binary: %w", err)
	}
	if n > maxBinaryBytes {
		return fmt.Errorf("extracted binary exceeds %d bytes", maxBinaryBytes)
	}
	return nil
}

// CopyFile copies src to dst preserving the 0755 mode, used to place the
// selected default binary. A plain copy (not a symlink) keeps the default
// usable on Windows and survives removal of the versioned source.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
