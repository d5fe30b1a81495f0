// SPDX-License-Identifier: MPL-2.0

package install

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeTarGz builds a .tgz archive at path with the given members.
func writeTarGz(t *testing.T, path string, members map[string][]byte) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range members {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("writing tar member: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
}

func TestExtractBinaryFromTarGz(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "sui-testnet-v1.39.3-ubuntu-x86_64.tgz")
	writeTarGz(t, archive, map[string][]byte{
		"sui-testnet-v1.39.3/sui":       []byte("sui binary"),
		"sui-testnet-v1.39.3/sui-debug": []byte("sui debug binary"),
		"sui-testnet-v1.39.3/README.md": []byte("docs"),
	})

	dest := filepath.Join(dir, "out", "sui-1.39.3")
	if err := ExtractBinary(archive, "sui", dest); err != nil {
		t.Fatalf("ExtractBinary: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading extracted binary: %v", err)
	}
	if string(content) != "sui binary" {
		t.Errorf("content = %q, want the release binary, not the debug one", content)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode()&0o111 == 0 {
			t.Error("extracted binary should be executable")
		}
	}
}

func TestExtractBinaryFromZip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "sui-testnet-v1.39.3-windows-x86_64.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("sui-testnet-v1.39.3/sui.exe")
	if err != nil {
		t.Fatalf("creating zip member: %v", err)
	}
	if _, err := w.Write([]byte("sui windows binary")); err != nil {
		t.Fatalf("writing zip member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	dest := filepath.Join(dir, "sui-1.39.3.exe")
	if err := ExtractBinary(archive, "sui", dest); err != nil {
		t.Fatalf("ExtractBinary: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading extracted binary: %v", err)
	}
	if string(content) != "sui windows binary" {
		t.Errorf("content = %q, want zip member", content)
	}
}

func TestExtractBinaryMissingMember(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "walrus.tgz")
	writeTarGz(t, archive, map[string][]byte{"walrus": []byte("walrus binary")})

	if err := ExtractBinary(archive, "sui", filepath.Join(dir, "sui")); err == nil {
		t.Fatal("expected error for missing archive member")
	}
}

func TestExtractBinaryUnsupportedFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "sui.rar")
	if err := os.WriteFile(archive, []byte("not an archive"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if err := ExtractBinary(archive, "sui", filepath.Join(dir, "sui")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("payload"), 0o755); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	dst := filepath.Join(dir, "nested", "dst")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("content = %q, want %q", content, "payload")
	}
}
