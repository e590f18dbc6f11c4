package dashboard

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"
)

// DiffConfig renders a unified diff between the current values of names and
// the same values with delta applied. It returns "" when delta changes nothing.
func DiffConfig(current ModuleConfig, delta map[string]any, names []string) (string, error) {
	before := make(map[string]any, len(names))
	after := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := current[name]
		if ok {
			before[name] = Normalize(v)
			after[name] = Normalize(v)
		}
		if nv, changed := delta[name]; changed {
			after[name] = Normalize(nv)
		}
	}

	from, err := yaml.Marshal(before)
	if err != nil {
		return "", err
	}
	to, err := yaml.Marshal(after)
	if err != nil {
		return "", err
	}
	if string(from) == string(to) {
		return "", nil
	}

	return strings.TrimSpace(udiff.Unified("current", "pending", string(from), string(to))), nil
}
