package repo

import (
	"embed"
	"encoding/json"
	"log/slog"
)

//go:embed data/*.json
var moduleData embed.FS

// Modules is a lookup set of known module names for one language.
type Modules struct {
	names map[string]bool
}

// Check reports whether name is in the set.
func (m *Modules) Check(name string) bool {
	return m.names[name]
}

// Len returns the number of known names.
func (m *Modules) Len() int { return len(m.names) }

// SysModules loads the known system-module names for language. A missing or
// malformed data file yields an empty set, not an error: classification then
// degrades to ThirdParty/Local/Unknown.
func SysModules(language string) *Modules {
	return loadModules("data/" + language + "_sys_modules.json")
}

// ThirdPartyModules loads the known third-party module names for language.
func ThirdPartyModules(language string) *Modules {
	return loadModules("data/" + language + "_third_party_modules.json")
}

func loadModules(path string) *Modules {
	m := &Modules{names: make(map[string]bool)}

	raw, err := moduleData.ReadFile(path)
	if err != nil {
		slog.Error("repo: loading module list", "path", path, "err", err)
		return m
	}
	var doc struct {
		Modules []string `json:"modules"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Error("repo: parsing module list", "path", path, "err", err)
		return m
	}
	for _, name := range doc.Modules {
		m.names[name] = true
	}
	return m
}
