// SPDX-License-Identifier: MPL-2.0

package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CleanupResult reports what a cache cleanup pass removed (or would
// remove, in dry-run mode).
type CleanupResult struct {
	Removed []string
	Bytes   int64
	DryRun  bool
}

// CleanCache deletes cached release archives older than maxAge. With all
// set, every cache file goes regardless of age. In dry-run mode nothing is
// deleted; the result lists what a real run would remove. A missing cache
// directory is an empty result, not an error.
func CleanCache(cacheDir string, maxAge time.Duration, all, dryRun bool) (*CleanupResult, error) {
	result := &CleanupResult{DryRun: dryRun}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("inspecting cache entry %s: %w", entry.Name(), err)
		}
		if !all && info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(cacheDir, entry.Name())
		if !dryRun {
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("removing %s: %w", path, err)
			}
		}
		result.Removed = append(result.Removed, path)
		result.Bytes += info.Size()
	}

	return result, nil
}
