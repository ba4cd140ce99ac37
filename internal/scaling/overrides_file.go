package scaling

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides is the on-disk YAML shape of a coefficient override file.
// Its pointer fields mirror Overrides, so a key absent from the file stays
// nil and leaves the base coefficient unchanged.
type fileOverrides struct {
	Systems      *float64 `yaml:"systems"`
	Vendors      *float64 `yaml:"vendors"`
	DataAssets   *float64 `yaml:"data_assets"`
	Policies     *float64 `yaml:"policies"`
	Controls     *float64 `yaml:"controls"`
	Risks        *float64 `yaml:"risks"`
	ThreatActors *float64 `yaml:"threat_actors"`
	Incidents    *float64 `yaml:"incidents"`
}

// LoadOverridesFile reads a YAML coefficient override file from path and
// returns the Overrides it describes.
func LoadOverridesFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("scaling: read overrides file: %w", err)
	}
	var f fileOverrides
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Overrides{}, fmt.Errorf("scaling: parse overrides file: %w", err)
	}
	return Overrides{
		Systems:      f.Systems,
		Vendors:      f.Vendors,
		DataAssets:   f.DataAssets,
		Policies:     f.Policies,
		Controls:     f.Controls,
		Risks:        f.Risks,
		ThreatActors: f.ThreatActors,
		Incidents:    f.Incidents,
	}, nil
}
