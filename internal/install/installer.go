// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/config"
	"github.com/MystenLabs/suiup/internal/release"
)

type (
	// Installer performs install, remove, switch, and update operations
	// against the on-disk layout. Release clients are created per binary
	// because each binary publishes from its own repository.
	Installer struct {
		cfg       *config.Config
		newClient func(b binaries.BinaryName) *release.Client
		logger    *log.Logger
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// WithClientFactory overrides how per-binary release clients are built,
// primarily so tests can point them at a local server.
func WithClientFactory(f func(b binaries.BinaryName) *release.Client) InstallerOption {
	return func(i *Installer) {
		i.newClient = f
	}
}

// WithLogger sets the logger for installer diagnostics.
func WithLogger(l *log.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = l
	}
}

// NewInstaller creates an Installer bound to the resolved configuration.
func NewInstaller(cfg *config.Config, opts ...InstallerOption) *Installer {
	i := &Installer{
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.newClient == nil {
		i.newClient = func(b binaries.BinaryName) *release.Client {
			owner, repo := b.Repo()
			var clientOpts []release.ClientOption
			if cfg.GitHubToken != "" {
				clientOpts = append(clientOpts, release.WithToken(cfg.GitHubToken))
			}
			return release.NewClient(owner, repo, clientOpts...)
		}
	}
	return i
}

// statePath returns the state file location under the configured data dir.
func (i *Installer) statePath() string {
	return config.StateFile(i.cfg.DataDir)
}

// State loads the current installed-versions registry.
func (i *Installer) State() (*State, error) {
	return LoadState(i.statePath())
}

// Resolve maps a parsed specifier to the concrete release that satisfies
// it: the pinned version's tag when one was given, otherwise the latest
// release on the requested network.
func (i *Installer) Resolve(ctx context.Context, meta binaries.CommandMetadata) (*release.Release, error) {
	client := i.newClient(meta.Name)

	if meta.Version != nil {
		tag := release.Tag(meta.Network, *meta.Version)
		rel, err := client.GetReleaseByTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("resolving %s %s: %w", meta.Name, tag, err)
		}
		return rel, nil
	}

	all, err := client.ListReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving latest %s release for %s: %w", meta.Network, meta.Name, err)
	}
	rel, err := release.LatestForNetwork(all, meta.Network)
	if err != nil {
		return nil, fmt.Errorf("resolving latest %s release for %s: %w", meta.Network, meta.Name, err)
	}
	return rel, nil
}

// Install downloads and installs the release that satisfies meta. The
// archive is cached, so reinstalls of the same version skip the download.
// When makeDefault is set the installed version also becomes the active
// default. Returns the recorded state entry.
func (i *Installer) Install(ctx context.Context, meta binaries.CommandMetadata, debug, makeDefault bool) (*InstalledBinary, error) {
	rel, err := i.Resolve(ctx, meta)
	if err != nil {
		return nil, err
	}

	network, version, ok := release.ParseTag(rel.TagName)
	if !ok {
		return nil, fmt.Errorf("release tag %q does not follow the network-version scheme", rel.TagName)
	}

	suffix, err := release.PlatformSuffix()
	if err != nil {
		return nil, err
	}
	asset, err := release.FindPlatformAsset(rel.Assets, suffix)
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", rel.TagName, err)
	}

	archivePath, err := i.fetchToCache(ctx, i.newClient(meta.Name), asset)
	if err != nil {
		return nil, err
	}

	binaryFile := meta.Name.String()
	if debug {
		// Sui ships a debug build alongside the release build in the same
		// archive, named with a -debug suffix.
		binaryFile += "-debug"
	}

	destName := fmt.Sprintf("%s-%s", binaryFile, version)
	if runtime.GOOS == "windows" {
		destName += ".exe"
	}
	destPath := filepath.Join(config.BinariesDir(i.cfg.DataDir), network, destName)

	i.logger.Debug("extracting binary", "archive", archivePath, "member", binaryFile, "dest", destPath)
	if err := ExtractBinary(archivePath, binaryFile, destPath); err != nil {
		return nil, err
	}

	state, err := i.State()
	if err != nil {
		return nil, err
	}

	entry := InstalledBinary{
		Name:    meta.Name.String(),
		Network: network,
		Version: version,
		Debug:   debug,
		Path:    destPath,
	}
	state.Add(entry)

	if makeDefault {
		if err := state.SetDefault(entry.Name, network, version, debug); err != nil {
			return nil, err
		}
		if err := i.placeDefault(entry); err != nil {
			return nil, err
		}
	}

	if err := state.Save(i.statePath()); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SwitchDefault makes an already-installed version the active default.
func (i *Installer) SwitchDefault(meta binaries.CommandMetadata) (*InstalledBinary, error) {
	state, err := i.State()
	if err != nil {
		return nil, err
	}

	name := meta.Name.String()

	var entry *InstalledBinary
	if meta.Version != nil {
		entry, _ = state.Find(name, meta.Network, *meta.Version, false)
	} else {
		// No pinned version: switch to the highest installed version on
		// the requested network.
		for idx := range state.Binaries {
			b := &state.Binaries[idx]
			if b.Name != name || b.Network != meta.Network || b.Debug {
				continue
			}
			if entry == nil || semver.Compare("v"+b.Version, "v"+entry.Version) > 0 {
				entry = b
			}
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%s on %s: %w (run `suiup install` first)", name, meta.Network, ErrNotInstalled)
	}

	if err := state.SetDefault(entry.Name, entry.Network, entry.Version, entry.Debug); err != nil {
		return nil, err
	}
	if err := i.placeDefault(*entry); err != nil {
		return nil, err
	}
	if err := state.Save(i.statePath()); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes installed files for a binary and updates the state. An
// empty version removes every installed version. The default binary in the
// bin dir is removed when its backing version goes away.
func (i *Installer) Remove(name binaries.BinaryName, version string) ([]InstalledBinary, error) {
	state, err := i.State()
	if err != nil {
		return nil, err
	}

	_, hadDefault := state.Defaults[name.String()]
	removed := state.Remove(name.String(), version)
	if len(removed) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}

	for _, b := range removed {
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing %s: %w", b.Path, err)
		}
	}

	// Default cleared by state.Remove means the active copy is stale.
	if _, stillDefault := state.Defaults[name.String()]; hadDefault && !stillDefault {
		if err := os.Remove(i.defaultPath(name.String())); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing default binary: %w", err)
		}
	}

	if err := state.Save(i.statePath()); err != nil {
		return nil, err
	}
	return removed, nil
}

// Update installs the latest release for each installed binary on its
// network (or only the named binary when name is non-nil) and moves the
// default to the new version. Already-current binaries are skipped.
func (i *Installer) Update(ctx context.Context, name *binaries.BinaryName) ([]InstalledBinary, error) {
	state, err := i.State()
	if err != nil {
		return nil, err
	}

	// Update targets: the default selection of each binary, since that is
	// the version the user actually runs.
	var targets []InstalledBinary
	for n := range state.Defaults {
		if name != nil && n != name.String() {
			continue
		}
		if entry, ok := state.DefaultFor(n); ok {
			targets = append(targets, *entry)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", ErrNotInstalled)
	}

	var updated []InstalledBinary
	for _, t := range targets {
		b, err := binaries.Parse(t.Name)
		if err != nil {
			return nil, err
		}

		meta := binaries.CommandMetadata{Name: b, Network: t.Network}
		rel, err := i.Resolve(ctx, meta)
		if err != nil {
			return nil, err
		}
		_, version, ok := release.ParseTag(rel.TagName)
		if !ok || version == t.Version {
			i.logger.Debug("already current", "binary", t.Name, "version", t.Version)
			continue
		}

		entry, err := i.Install(ctx, meta, t.Debug, true)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *entry)
	}

	return updated, nil
}

// Which resolves the path of the active default for a binary.
func (i *Installer) Which(name binaries.BinaryName) (string, error) {
	state, err := i.State()
	if err != nil {
		return "", err
	}
	if _, ok := state.DefaultFor(name.String()); !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	return i.defaultPath(name.String()), nil
}

// defaultPath is where the active default for a binary lives in the bin dir.
func (i *Installer) defaultPath(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(i.cfg.DefaultBinDir, name)
}

// placeDefault copies an installed version into the default bin dir under
// the binary's canonical name.
func (i *Installer) placeDefault(b InstalledBinary) error {
	dst := i.defaultPath(b.Name)
	i.logger.Debug("placing default", "binary", b.Name, "version", b.Version, "dest", dst)
	return CopyFile(b.Path, dst)
}

// fetchToCache downloads a release asset into the cache directory unless a
// cached copy already exists, and returns the cached path.
func (i *Installer) fetchToCache(ctx context.Context, client *release.Client, asset *release.Asset) (string, error) {
	if err := os.MkdirAll(i.cfg.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	cached := filepath.Join(i.cfg.CacheDir, asset.Name)
	if info, err := os.Stat(cached); err == nil && info.Size() > 0 {
		i.logger.Debug("using cached archive", "path", cached)
		return cached, nil
	}

	body, err := client.DownloadAsset(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp(i.cfg.CacheDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing download file: %w", err)
	}
	if err := os.Rename(tmpName, cached); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("caching %s: %w", asset.Name, err)
	}
	return cached, nil
}
