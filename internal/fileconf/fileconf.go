// Package fileconf decodes the YAML/JSON registry files (endpoints, publishers).
package fileconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	format string
	exts   []string
	fn     func([]byte, any) error
}

var decoders = []decoder{
	{format: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
	{format: "json", exts: []string{".json"}, fn: json.Unmarshal},
}

// Load reads path and decodes it into out. The extension picks the format;
// files without a known extension are tried as YAML, then JSON. kind names
// the file in errors ("endpoints", "publishers").
func Load(kind, path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fmt.Errorf("%s file %q is empty", kind, path)
	}
	return Decode(kind, raw, filepath.Ext(path), out)
}

// Decode decodes data according to ext (".yaml", ".yml", ".json" or "").
func Decode(kind string, data []byte, ext string, out any) error {
	ext = strings.ToLower(strings.TrimSpace(ext))

	for _, d := range decoders {
		if ext != "" && !matches(d.exts, ext) {
			continue
		}
		if err := d.fn(data, out); err != nil {
			if ext != "" {
				return fmt.Errorf("decode %s %s: %w", d.format, kind, err)
			}
			continue
		}
		return nil
	}

	return errors.New(kind + " file format not recognized (expected YAML or JSON)")
}

func matches(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
