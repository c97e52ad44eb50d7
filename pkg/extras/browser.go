package extras

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/paths"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
)

const (
	// BrowserScriptName is the helper installed under ~/.local/bin.
	BrowserScriptName = "hyprstrap-firefox-setup"

	// BrowserUnitName is the one-shot user unit wrapping the helper.
	BrowserUnitName = "hyprstrap-firefox-setup.service"

	// browserPayloadDir, relative to the home directory, is where the
	// Go side stages the extension registry and search descriptor for
	// the helper to pick up at profile-discovery time.
	browserPayloadDir = ".local/share/hyprstrap/firefox"
)

// Browser wires the Firefox bootstrap: a helper script, its staged
// payloads, and a user unit that runs the helper inside a session.
type Browser struct {
	paths   *paths.Paths
	runner  shell.Runner
	systemd *systemd.Client
}

// NewBrowser creates the browser bootstrap unit.
func NewBrowser(p *paths.Paths, runner shell.Runner, sysd *systemd.Client) *Browser {
	return &Browser{paths: p, runner: runner, systemd: sysd}
}

// Install writes the helper script, the staged payloads and the user
// unit, enables the unit, and runs the helper once immediately when a
// session bus is reachable. The immediate run is best-effort.
func (b *Browser) Install(ctx context.Context, browser config.Browser, engines []SearchEngine) error {
	logger := logging.GetLogger("extras.browser")

	scriptPath := filepath.Join(b.paths.LocalBin(), BrowserScriptName)
	if err := os.MkdirAll(b.paths.LocalBin(), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create ~/.local/bin")
	}
	if err := os.WriteFile(scriptPath, []byte(browserScript), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", scriptPath)
	}

	if err := b.stagePayloads(browser, engines); err != nil {
		return err
	}

	unitDir := filepath.Join(b.paths.ConfigEntry("systemd"), "user")
	if err := os.MkdirAll(unitDir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create user unit directory")
	}
	unit := browserUnit(scriptPath)
	unitPath := filepath.Join(unitDir, BrowserUnitName)
	if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write browser unit")
	}

	if paths.InChroot() || !paths.HasRuntimeDir() {
		// No session bus to talk to, so enable the unit the way
		// systemctl would: a wants symlink under the install target.
		// Without it the deferred bootstrap never fires at login.
		if err := linkUnitWanted(unitDir, unitPath); err != nil {
			return err
		}
		logger.Info().Msg("No session bus, browser bootstrap deferred to first login")
		return nil
	}

	if err := b.systemd.DaemonReloadUser(ctx); err != nil {
		logger.Warn().Err(err).Msg("user daemon-reload failed")
	}
	if err := b.systemd.EnableUser(ctx, []string{BrowserUnitName}); err != nil {
		logger.Warn().Err(err).Msg("cannot enable browser unit")
	}
	if err := b.runner.Run(ctx, scriptPath); err != nil {
		logger.Warn().Err(err).Msg("immediate browser bootstrap failed, unit will retry at login")
	}
	return nil
}

// stagePayloads writes the extension registry and the search descriptor
// under the payload directory.
func (b *Browser) stagePayloads(browser config.Browser, engines []SearchEngine) error {
	dir := filepath.Join(b.paths.Home(), browserPayloadDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create browser payload directory")
	}

	registry, err := json.MarshalIndent(extensionRegistry(browser.Extensions), "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrExtraFailed, "cannot serialize extension registry")
	}
	if err := os.WriteFile(filepath.Join(dir, "extensions.json"), registry, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write extension registry")
	}

	if len(engines) > 0 {
		name, data, err := BuildSearchDescriptor(engines)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "cannot write search descriptor")
		}
	}
	return nil
}

type extensionEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// extensionRegistry orders the map for stable output.
func extensionRegistry(ext map[string]string) []extensionEntry {
	ids := make([]string, 0, len(ext))
	for id := range ext {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]extensionEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, extensionEntry{ID: id, URL: ext[id]})
	}
	return entries
}

// linkUnitWanted creates the graphical-session.target.wants symlink for
// the unit, matching what systemctl --user enable would produce.
func linkUnitWanted(unitDir, unitPath string) error {
	wantsDir := filepath.Join(unitDir, "graphical-session.target.wants")
	if err := os.MkdirAll(wantsDir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create unit wants directory")
	}

	link := filepath.Join(wantsDir, BrowserUnitName)
	if _, err := os.Lstat(link); err == nil {
		return nil
	}
	if err := os.Symlink(unitPath, link); err != nil {
		return errors.Wrap(err, errors.ErrSymlinkCreate, "cannot enable browser unit")
	}
	return nil
}

func browserUnit(scriptPath string) string {
	var sb strings.Builder
	sb.WriteString("[Unit]\n")
	sb.WriteString("Description=Firefox profile bootstrap\n\n")
	sb.WriteString("[Service]\n")
	sb.WriteString("Type=oneshot\n")
	fmt.Fprintf(&sb, "ExecStart=%s\n\n", scriptPath)
	sb.WriteString("[Install]\n")
	sb.WriteString("WantedBy=graphical-session.target\n")
	return sb.String()
}

// browserScript discovers (or creates) the default Firefox profile and
// installs the staged payloads into it. Download failures of single
// extensions do not abort the rest.
const browserScript = `#!/bin/sh
set -u

payload_dir="$HOME/.local/share/hyprstrap/firefox"
ff_dir="$HOME/.mozilla/firefox"

fetch() {
    if command -v curl >/dev/null 2>&1; then
        curl -fsSL -o "$2" "$1"
    elif command -v wget >/dev/null 2>&1; then
        wget -qO "$2" "$1"
    else
        echo "neither curl nor wget available" >&2
        return 1
    fi
}

profile_dir() {
    if [ -f "$ff_dir/profiles.ini" ]; then
        rel=$(sed -n 's/^Default=\(.*[^01]\)$/\1/p' "$ff_dir/profiles.ini" | head -n1)
        [ -n "$rel" ] && { echo "$ff_dir/$rel"; return 0; }
        rel=$(sed -n 's/^Path=\(.*\)$/\1/p' "$ff_dir/profiles.ini" | head -n1)
        [ -n "$rel" ] && { echo "$ff_dir/$rel"; return 0; }
    fi
    if command -v firefox >/dev/null 2>&1; then
        firefox --headless -CreateProfile default >/dev/null 2>&1 || true
        rel=$(sed -n 's/^Path=\(.*\)$/\1/p' "$ff_dir/profiles.ini" 2>/dev/null | head -n1)
        [ -n "$rel" ] && { echo "$ff_dir/$rel"; return 0; }
    fi
    return 1
}

profile=$(profile_dir) || { echo "no firefox profile found" >&2; exit 1; }

ext_dir="$profile/extensions"
mkdir -p "$ext_dir"
if [ -f "$payload_dir/extensions.json" ]; then
    sed -n 's/.*"id": "\([^"]*\)".*/\1/p' "$payload_dir/extensions.json" | while read -r id; do
        url=$(grep -A1 "\"$id\"" "$payload_dir/extensions.json" | sed -n 's/.*"url": "\([^"]*\)".*/\1/p')
        [ -n "$url" ] || continue
        fetch "$url" "$ext_dir/$id.xpi" || echo "failed to fetch $id" >&2
    done
fi

for f in "$payload_dir/search.json.mozlz4" "$payload_dir/search.json"; do
    [ -f "$f" ] && cp "$f" "$profile/" && break
done

exit 0
`
