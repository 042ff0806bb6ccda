package xconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

func loadFromFile(config interface{}, filename string, strict bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return unmarshalJSON(data, config, strict)
	case ".yaml", ".yml":
		return unmarshalYAML(data, config, strict)
	default:
		return fmt.Errorf("unsupported file extension %s for file %s", ext, filename)
	}
}

func unmarshalYAML(data []byte, config interface{}, strict bool) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(strict)
	return dec.Decode(config)
}

func unmarshalJSON(data []byte, config interface{}, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(config)
}

func isConfigFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".json" || ext == ".yaml" || ext == ".yml"
}

func loadFromFiles(config interface{}, filenames []string, strict bool) error {
	for _, filename := range filenames {
		if err := loadFromFile(config, filename, strict); err != nil {
			return fmt.Errorf("failed to load file %s: %w", filename, err)
		}
	}
	return nil
}

func scanDirectory(dirname string) ([]string, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dirname, err)
	}

	var configFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && isConfigFile(entry.Name()) {
			configFiles = append(configFiles, filepath.Join(dirname, entry.Name()))
		}
	}

	sort.Strings(configFiles)
	return configFiles, nil
}

func loadFromDirs(config interface{}, dirnames []string, strict bool) error {
	var allFiles []string

	for _, dirname := range dirnames {
		files, err := scanDirectory(dirname)
		if err != nil {
			return err
		}
		allFiles = append(allFiles, files...)
	}

	return loadFromFiles(config, allFiles, strict)
}
