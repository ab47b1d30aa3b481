package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts json, yaml/yml and parquet, case-insensitively.
// An empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/json"
	}
}

func (f Format) Extension() string {
	return string(f)
}

// ExportRecord is the metadata written for each favorite. Image bytes are not
// exported, only their size.
type ExportRecord struct {
	Position    int    `json:"position" yaml:"position" parquet:"position"`
	ID          string `json:"id" yaml:"id" parquet:"id"`
	Caption     string `json:"caption" yaml:"caption" parquet:"caption"`
	Tag         string `json:"tag" yaml:"tag" parquet:"tag"`
	ContentType string `json:"content_type" yaml:"content_type" parquet:"content_type"`
	SourceURL   string `json:"source_url" yaml:"source_url" parquet:"source_url"`
	Width       int    `json:"width" yaml:"width" parquet:"width"`
	Height      int    `json:"height" yaml:"height" parquet:"height"`
	SizeBytes   int64  `json:"size_bytes" yaml:"size_bytes" parquet:"size_bytes"`
	SavedAt     string `json:"saved_at" yaml:"saved_at" parquet:"saved_at"`
}

func toRecords(items []Favorite) []ExportRecord {
	records := make([]ExportRecord, 0, len(items))
	for i, f := range items {
		records = append(records, ExportRecord{
			Position:    i + 1,
			ID:          f.ID,
			Caption:     f.Caption,
			Tag:         f.Tag,
			ContentType: f.ContentType,
			SourceURL:   f.SourceURL,
			Width:       f.Width,
			Height:      f.Height,
			SizeBytes:   int64(len(f.Bytes)),
			SavedAt:     f.SavedAt.UTC().Format(time.RFC3339),
		})
	}
	return records
}

// Encode writes items to w in the given format.
func Encode(w io.Writer, format Format, items []Favorite) error {
	records := toRecords(items)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to close YAML encoder: %w", err)
		}
	case FormatParquet:
		pw := parquet.NewGenericWriter[ExportRecord](w)
		if _, err := pw.Write(records); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("failed to close parquet writer: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}
