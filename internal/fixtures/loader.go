package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/dirabasi.yaml
var canonical []byte

// Dataset is the raw fixture collection as read from a source.
type Dataset struct {
	Routes   []domain.Route   `yaml:"routes"`
	Stations []domain.Station `yaml:"stations"`
	Buses    []domain.Bus     `yaml:"buses"`
	Users    []domain.User    `yaml:"users"`
}

// LoadFromReader decodes a YAML dataset.
func LoadFromReader(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return ds, nil
}

// LoadFile reads a YAML dataset from disk.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// Canonical returns the dataset compiled into the binary.
func Canonical() (Dataset, error) {
	return LoadFromReader(bytes.NewReader(canonical))
}
