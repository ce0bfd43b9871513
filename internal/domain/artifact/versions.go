package artifact

import (
	"encoding/json"
	"fmt"
	"sort"

	goversion "github.com/hashicorp/go-version"
)

// EngineVersions records the known release versions per engine.
type EngineVersions map[Engine][]*goversion.Version

// MarshalJSON orders engines by catalog order and versions ascending.
func (ev EngineVersions) MarshalJSON() ([]byte, error) {
	root := newJSONObject()

	for _, engine := range Engines() {
		versions, ok := ev[engine]
		if !ok {
			continue
		}

		sorted := make(goversion.Collection, len(versions))
		copy(sorted, versions)
		sort.Sort(sorted)

		rendered := make([]string, 0, len(sorted))
		for _, v := range sorted {
			rendered = append(rendered, v.String())
		}

		root.set(string(engine), rendered)
	}

	return root.MarshalJSON()
}

// UnmarshalJSON validates engine names and version strings; anything
// unparseable means the cache file is corrupt.
func (ev *EngineVersions) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode versions: %w", err)
	}

	result := make(EngineVersions, len(raw))

	for engineName, rawVersions := range raw {
		engine, err := ParseEngine(engineName)
		if err != nil {
			return err
		}

		versions := make([]*goversion.Version, 0, len(rawVersions))

		for _, rawVersion := range rawVersions {
			v, err := goversion.NewVersion(rawVersion)
			if err != nil {
				return fmt.Errorf("version %q for %s: %w", rawVersion, engine, err)
			}

			versions = append(versions, v)
		}

		sort.Sort(goversion.Collection(versions))
		result[engine] = versions
	}

	*ev = result

	return nil
}
