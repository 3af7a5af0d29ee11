package descriptor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON descriptor and validates it.
// Unknown fields are ignored so that descriptors may carry fields added by
// newer module authoring tools.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseYAML decodes a YAML descriptor and validates it.
func ParseYAML(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDir walks an fs.FS and parses every *.json, *.yaml and *.yml file as a
// module descriptor. Use it to ingest a deploy directory where each module
// bundle ships one descriptor file.
//
// A file that fails to parse or validate aborts the walk; a broken deploy
// directory should be caught at boot, not half-ingested.
func LoadDir(fsys fs.FS) ([]*Descriptor, error) {
	var out []*Descriptor

	err := fs.WalkDir(fsys, ".", func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		data, readErr := fs.ReadFile(fsys, filePath)

		var d *Descriptor
		switch strings.ToLower(path.Ext(filePath)) {
		case ".json":
			if readErr != nil {
				return fmt.Errorf("reading %q: %w", filePath, readErr)
			}
			d, err = Parse(data)
		case ".yaml", ".yml":
			if readErr != nil {
				return fmt.Errorf("reading %q: %w", filePath, readErr)
			}
			d, err = ParseYAML(data)
		default:
			return nil
		}
		if err != nil {
			return fmt.Errorf("descriptor %q: %w", filePath, err)
		}

		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
