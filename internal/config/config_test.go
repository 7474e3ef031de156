package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"printestimate/internal/errs"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printer.json5")
	// JSON5: comment and a trailing comma, both of which plain JSON rejects.
	body := "{\n  // only override max_velocity\n  max_velocity: 250,\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.Limits.MaxVelocity)
	assert.Equal(t, 3000.0, res.Limits.MaxAccel)
	assert.Contains(t, res.Limits.Extruders, "extruder")
	assert.Greater(t, res.FilamentArea, 0.0)
}

func TestLoadMissingFileIsIoError(t *testing.T) {
	_, err := Load("/nonexistent/printer.json5")
	var ioErr *errs.IoError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadUnsupportedKinematicsWarns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printer.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{kinematics: "delta"}`), 0o644))

	res, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, res.Warning)
}

func TestDefaultIsValid(t *testing.T) {
	res := Default()
	require.NoError(t, res.Limits.Validate())
}

func TestMarshalYAMLRoundTripsScalars(t *testing.T) {
	res := Default()
	out, err := MarshalYAML(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), "max_velocity:")

	var back yamlDoc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, res.Limits.MaxVelocity, back.MaxVelocity)
	assert.Equal(t, res.FilamentArea, back.FilamentArea)
}
