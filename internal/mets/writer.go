package mets

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/metsgen/internal/assets"
)

const indent = "  "

// Marshal renders doc with an XML declaration and two-space indentation
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", indent)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode METS document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush METS document: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Parse decodes a manifest
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode METS document: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes the manifest at path
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// OutputPath returns where the manifest for volume is written
func OutputPath(volume *assets.Volume) string {
	return filepath.Join(volume.Path, assets.ManifestName(volume.Name))
}

// manifestMode is the permission requested for new manifests, before the umask
const manifestMode = 0644

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory first, so a failed write never leaves a truncated manifest.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	// OpenFile applies the process umask to manifestMode
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, manifestMode)
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest: %w", err)
	}
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}

	return nil
}
