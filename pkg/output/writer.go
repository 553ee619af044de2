// Package output writes BusinessDNA records to disk.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer writes one file per record under a directory, plus a JSON Lines file of the
// record's content chunks when it has any
type Writer struct {
	dir    string
	format string
	log    *logrus.Entry
}

// NewWriter creates a Writer. format is "json" or "yaml".
func NewWriter(dir, format string, log *logrus.Entry) (*Writer, error) {
	format = strings.ToLower(format)
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("%w: unknown output format '%s'", utils.ErrConfigValidation, format)
	}
	return &Writer{dir: dir, format: format, log: log}, nil
}

// Write stores dna and returns the path of the record file
func (w *Writer) Write(dna *models.BusinessDNA) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory '%s': %w", w.dir, err)
	}
	base := BaseName(dna)
	recordPath := filepath.Join(w.dir, base+"."+w.format)

	data, err := Encode(dna, w.format)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(recordPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing '%s': %w", recordPath, err)
	}

	if len(dna.Chunks) > 0 {
		chunksPath := filepath.Join(w.dir, base+".chunks.jsonl")
		if err := writeChunks(chunksPath, dna.Chunks); err != nil {
			w.log.WithField("chunks_file", chunksPath).Errorf("Failed to write chunks file: %v", err)
		}
	}

	w.log.Infof("Wrote business DNA for '%s' to %s", dna.BusinessName, recordPath)
	return recordPath, nil
}

// Encode serializes dna as indented JSON or YAML
func Encode(dna *models.BusinessDNA, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(dna, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling business DNA to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dna); err != nil {
			return nil, fmt.Errorf("marshaling business DNA to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling business DNA to YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown output format '%s'", utils.ErrConfigValidation, format)
	}
}

// BaseName is "<host>-<first 8 chars of the ID>", or just the host when there is no ID
func BaseName(dna *models.BusinessDNA) string {
	host := ""
	if u, err := url.Parse(dna.SourceURL); err == nil {
		host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	if host == "" {
		host = dna.BusinessName
	}
	name := host
	if id := dna.ID; id != "" {
		name += "-" + utils.TruncateRunes(id, 8)
	}
	return utils.SanitizeFilename(name)
}

func writeChunks(path string, chunks []models.ContentChunk) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
