package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadCalibration returns the calculator constants. An empty path yields the
// built-in defaults; otherwise the YAML file at path overrides individual
// fields of the defaults. Unknown keys are rejected so typos surface early.
func LoadCalibration(path string) (domain.Constants, error) {
	if path == "" {
		return domain.DefaultConstants(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Constants{}, fmt.Errorf("read calibration file: %w", err)
	}
	return ParseCalibration(data)
}

// ParseCalibration applies YAML overrides on top of domain.DefaultConstants.
func ParseCalibration(data []byte) (domain.Constants, error) {
	k := domain.DefaultConstants()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&k); err != nil && !errors.Is(err, io.EOF) {
		return domain.Constants{}, fmt.Errorf("parse calibration: %w", err)
	}
	if err := k.Validate(); err != nil {
		return domain.Constants{}, fmt.Errorf("calibration: %w", err)
	}
	return k, nil
}
