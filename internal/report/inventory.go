package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
	"github.com/lehigh-university-libraries/metsgen/internal/mets"
	"github.com/parquet-go/parquet-go"
)

// InventoryRow is one asset file listed in a manifest
type InventoryRow struct {
	Volume   string `parquet:"volume"`
	PageKey  string `parquet:"page_key"`
	Ext      string `parquet:"extension"`
	Filename string `parquet:"filename"`
	FileID   string `parquet:"file_id"`
	MIMEType string `parquet:"mime_type"`
	Manifest string `parquet:"manifest"`
}

// InventoryRows flattens volumes into rows, pages in key order
func InventoryRows(volumes []*assets.Volume) []InventoryRow {
	var rows []InventoryRow
	for _, v := range volumes {
		manifest := mets.OutputPath(v)
		for _, g := range v.SortedGroups() {
			for _, ext := range g.Extensions {
				rows = append(rows, InventoryRow{
					Volume:   v.Name,
					PageKey:  g.Key,
					Ext:      string(ext),
					Filename: g.Files[ext],
					FileID:   assets.FileID(g.Key, ext),
					MIMEType: assets.MIMEType(ext),
					Manifest: manifest,
				})
			}
		}
	}
	return rows
}

// WriteInventory writes one Parquet row per asset file of the given volumes
func WriteInventory(path string, volumes []*assets.Volume) (int, error) {
	rows := InventoryRows(volumes)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create inventory directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create inventory file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[InventoryRow](file)
	if _, err := writer.Write(rows); err != nil {
		return 0, fmt.Errorf("failed to write inventory rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize inventory: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("failed to close inventory file: %w", err)
	}

	slog.Debug("Wrote inventory", "path", path, "rows", len(rows), "volumes", len(volumes))

	return len(rows), nil
}

// LoadInventory reads the rows of an inventory file
func LoadInventory(path string) ([]InventoryRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[InventoryRow](pf)
	defer reader.Close()

	var rows []InventoryRow
	batch := make([]InventoryRow, 128)

	for {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read inventory rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return rows, nil
}
