package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks if a config file written for configVersion can be
// loaded by an engine at engineVersion. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If the engine version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The config may not be newer than the engine (it could carry keys the engine ignores)
//
// Examples:
//   - Engine 1.2.0, Config 1.0.0 -> OK
//   - Engine 1.2.0, Config 1.2.0 -> OK
//   - Engine 1.2.0, Config 1.3.0 -> ERROR (config newer than engine)
//   - Engine 2.0.0, Config 1.2.0 -> ERROR (major differs)
//   - Engine main, Config 9.9.9 -> OK (dev build, skip check)
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if engineSemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	// Prerelease and metadata are ignored when comparing against the engine
	core, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", configSemver.Major(), configSemver.Minor(), configSemver.Patch()))
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	constraint, err := semver.NewConstraint(fmt.Sprintf("<= %d.%d.%d", engineSemver.Major(), engineSemver.Minor(), engineSemver.Patch()))
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	if !constraint.Check(core) {
		return fmt.Errorf("config version %s is newer than engine %s", configVersion, engineVersion)
	}

	return nil
}
