package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpactCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"impact", "--diameter", "500", "--velocity", "20", "--lat", "0", "--lon", "-150"})
	require.NoError(t, rootCmd.Execute())

	var result domain.ImpactResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.InDelta(t, 9385.7, result.Energy, 0.1)
	assert.True(t, result.IsOceanImpact)
	assert.NotNil(t, result.TsunamiHeight)
}

func TestImpactCommand_InvalidAngle(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"impact", "--diameter", "500", "--velocity", "20", "--angle", "120"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	impactParams.Angle = 45
}

func TestMitigateCommand_DerivesMass(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"mitigate", "--strategy", "kinetic_impactor", "--diameter", "500", "--velocity", "20", "--warning-years", "10"})
	require.NoError(t, rootCmd.Execute())

	var outcome domain.MitigationOutcome
	require.NoError(t, json.Unmarshal(out.Bytes(), &outcome))
	assert.Equal(t, domain.StrategyKineticImpactor, outcome.Strategy)
	assert.InDelta(t, 0.95, outcome.SuccessProbability, 1e-12)
	assert.Greater(t, outcome.VelocityChange, 0.0)
}

func TestMitigateCommand_UnknownStrategy(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"mitigate", "--strategy", "laser", "--diameter", "500", "--velocity", "20"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}
