package assets

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// supportedExtensions is the fixed set of recognized asset types
var supportedExtensions = map[Extension]bool{
	ExtPDF:  true,
	ExtTIFF: true,
	ExtTIF:  true,
	ExtJP2:  true,
	ExtJ2K:  true,
	ExtXML:  true,
}

var mimeTypes = map[Extension]string{
	ExtPDF:  "application/pdf",
	ExtTIF:  "image/tiff",
	ExtTIFF: "image/tiff",
	ExtJ2K:  "image/jp2",
	ExtJP2:  "image/jp2",
	ExtXML:  "text/xml",
}

const defaultMIMEType = "application/octet-stream"

// ManifestSuffix is appended to the volume name to form the manifest filename
const ManifestSuffix = ".mets.xml"

// ManifestName returns the manifest filename for a volume
func ManifestName(volumeName string) string {
	return volumeName + ManifestSuffix
}

// pageSuffixRegex matches a trailing "1" preceded by a single space or underscore
var pageSuffixRegex = regexp.MustCompile(`[ _]1$`)

// IsSupported reports whether ext is one of the recognized asset extensions
func IsSupported(ext Extension) bool {
	return supportedExtensions[ext]
}

// MIMEType returns the MIME type for ext
func MIMEType(ext Extension) string {
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return defaultMIMEType
}

// GroupKey normalizes a filename without extension to its page group key,
// so "page_1" and "page 1" both become "page"
func GroupKey(name string) string {
	return pageSuffixRegex.ReplaceAllString(name, "")
}

// FileID builds the identifier shared by the file inventory and the structural map
func FileID(key string, ext Extension) string {
	return fmt.Sprintf("f_%s_%s", strings.ReplaceAll(key, " ", "_"), ext)
}

// SplitName splits a filename into its base name and lowercased extension.
// Leading dots belong to the name, so ".xml" has no extension.
func SplitName(filename string) (string, Extension) {
	rawExt := filepath.Ext(strings.TrimLeft(filename, "."))
	name := strings.TrimSuffix(filename, rawExt)
	return name, Extension(strings.ToLower(strings.TrimPrefix(rawExt, ".")))
}

// isRegularFile follows symlinks the way a plain stat does
func isRegularFile(dir string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Scan lists the immediate files of dir and groups the recognized ones into pages.
// Entries are visited in name order, so a later file with the same key and
// extension replaces the earlier one.
func Scan(dir string) (*Volume, error) {
	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	volume := &Volume{
		Name: filepath.Base(absDir),
		Path: absDir,
	}
	manifest := ManifestName(volume.Name)

	for _, entry := range entries {
		if !isRegularFile(dir, entry) {
			continue
		}

		// A manifest from an earlier run is output, not input
		if entry.Name() == manifest {
			continue
		}

		name, ext := SplitName(entry.Name())
		if !IsSupported(ext) {
			slog.Debug("Ignoring unsupported file", "dir", volume.Name, "file", entry.Name())
			continue
		}

		volume.add(GroupKey(name), ext, entry.Name())
	}

	for _, c := range volume.Collisions {
		slog.Warn("Duplicate page asset, keeping later file",
			"dir", volume.Name,
			"key", c.Key,
			"extension", c.Extension,
			"replaced", c.Replaced,
			"kept", c.Kept)
	}

	slog.Debug("Scanned directory", "dir", volume.Name, "groups", len(volume.Groups), "files", volume.FileCount())

	return volume, nil
}
