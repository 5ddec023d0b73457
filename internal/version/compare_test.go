package version

import (
	"testing"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			configVersion: "1.2.0",
		},
		{
			name:          "config patch higher",
			engineVersion: "1.2.0",
			configVersion: "1.2.5",
		},
		{
			name:          "config minor older",
			engineVersion: "1.3.0",
			configVersion: "1.2.4",
		},
		{
			name:          "v prefix",
			engineVersion: "v1.0.0",
			configVersion: "v1.0.3",
		},
		{
			name:          "unversioned config",
			engineVersion: "1.0.0",
			configVersion: "",
		},
		{
			name:          "development engine",
			engineVersion: "main",
			configVersion: "7.0.0",
		},
		{
			name:          "development config",
			engineVersion: "1.0.0",
			configVersion: "main",
		},
		{
			name:          "config minor newer",
			engineVersion: "1.2.0",
			configVersion: "1.3.0",
			expectError:   true,
			errorContains: "or newer",
		},
		{
			name:          "major differs",
			engineVersion: "2.0.0",
			configVersion: "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "invalid config version",
			engineVersion: "1.0.0",
			configVersion: "one",
			expectError:   true,
			errorContains: "invalid config version",
		},
		{
			name:          "invalid engine version",
			engineVersion: "x.y",
			configVersion: "1.0.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.engineVersion, tt.configVersion)
			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, errors.ErrCodeBacktestConfigError, errors.GetCode(err))
		})
	}
}

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v9.9.9"
	assert.Equal(t, "v9.9.9", GetVersion())
}
