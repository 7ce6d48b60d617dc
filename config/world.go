package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location binds a location code to a navigable point.
type Location struct {
	Code string  `json:"code" yaml:"code"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// World describes the navigable locations and the unreachable pairs of a run.
type World struct {
	Locations []Location  `json:"locations" yaml:"locations"`
	Blocked   [][2]string `json:"blocked" yaml:"blocked"`
}

// LoadWorld loads a World from a JSON or YAML file.
func LoadWorld(path string) (World, error) {
	f, err := os.Open(path)
	if err != nil {
		return World{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeWorld(f, ext)
}

// DecodeWorld reads from r to decode a World.
func DecodeWorld(r io.Reader, format string) (World, error) {
	var w World
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	default:
		return w, fmt.Errorf("unsupported format: %s", format)
	}
	if len(w.Locations) == 0 {
		return w, fmt.Errorf("world defines no locations")
	}
	return w, nil
}
