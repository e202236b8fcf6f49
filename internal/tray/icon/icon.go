package icon

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed icon.png
var PNG []byte

const bundleMarker = ".app/Contents/MacOS"

// Load returns the icon from the macOS bundle resources when running from an
// .app bundle, and the embedded icon otherwise.
func Load() []byte {
	exe, err := os.Executable()
	if err != nil {
		return PNG
	}
	if data, ok := FromBundle(exe); ok {
		return data
	}
	return PNG
}

// FromBundle reads Contents/Resources/img/icon.png next to a bundled executable.
func FromBundle(exe string) ([]byte, bool) {
	dir := filepath.Dir(exe)
	if !strings.HasSuffix(filepath.ToSlash(dir), bundleMarker) {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(dir, "..", "Resources", "img", "icon.png"))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}
