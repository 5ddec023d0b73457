package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// CheckConfigCompatibility checks whether a config written for configVersion can
// be run by a backtester at engineVersion. Returns nil if compatible.
//
// Compatibility Rules:
//   - An empty config version is always accepted
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The config's minor version must not be newer than the engine's
//   - Patch versions can differ
//
// Examples:
//   - Engine 1.2.0, Config 1.2.0 -> OK
//   - Engine 1.3.0, Config 1.2.4 -> OK (older minor)
//   - Engine 1.2.0, Config 1.3.0 -> ERROR (config needs a newer engine)
//   - Engine 2.0.0, Config 1.2.0 -> ERROR (major differs)
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	if configVersion == "" {
		return nil
	}

	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "invalid engine version '%s'", engineVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "invalid config version '%s'", configVersion)
	}

	if engineSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > engineSemver.Minor() {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"config requires engine %d.%d.x or newer, running %s",
			configSemver.Major(), configSemver.Minor(), engineSemver.String())
	}

	return nil
}
