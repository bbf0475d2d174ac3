// package formatter provides functions to export generated track lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
)

// GenerationExport bundles a generated track list with the request that
// produced it, for export to disk.
type GenerationExport struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Message     string         `json:"message"`
	PlaylistID  string         `json:"playlist_id,omitempty"`
	Tracks      []models.Track `json:"tracks"`
}

// ExportToCSV converts a GenerationExport to CSV format with columns: ID, Title, Artist, URL
func ExportToCSV(export *GenerationExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.ExternalURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a GenerationExport to Markdown format
func ExportToMarkdown(export *GenerationExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))

	if export.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.Description))
	}
	if export.Message != "" {
		buf.WriteString(fmt.Sprintf("**Prompt**: %s\n\n", export.Message))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(export.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		if track.ExternalURL != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)\n", i+1, track.Artist, track.Title, track.ExternalURL))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a GenerationExport to plain text format
func ExportToText(export *GenerationExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Name))
	if export.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.Description))
	}
	if export.Message != "" {
		buf.WriteString(fmt.Sprintf("Prompt: %s\n", export.Message))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Tracks)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a pretty-printed JSON representation of the export.
func ToJSON(export *GenerationExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteExport writes the export to disk in the format implied by the
// extension of path (.csv, .md, .txt, .json). Defaults to plain text for
// unknown extensions.
func WriteExport(export *GenerationExport, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = ExportToCSV(export)
	case ".md":
		data, err = ExportToMarkdown(export)
	case ".json":
		data, err = ToJSON(export)
	default:
		data, err = ExportToText(export)
	}
	if err != nil {
		return fmt.Errorf("failed to generate export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
