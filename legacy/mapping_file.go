package legacy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MappingFile is the on-disk form of the alias maps of several tables.
type MappingFile struct {
	Tables map[string]TableMapping `yaml:"tables"`
}

// TableMapping is the alias map of one table, optionally extending the map
// of another table.
type TableMapping struct {
	Inherits string   `yaml:"inherits,omitempty"`
	Aliases  AliasMap `yaml:"aliases,omitempty"`
}

// UnmarshalYAML accepts either a flat column: alias map or the
// inherits/aliases form.
func (t *TableMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode && isStructured(value) {
		type plain TableMapping
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*t = TableMapping(p)
		return nil
	}

	var flat AliasMap
	if err := value.Decode(&flat); err != nil {
		return err
	}
	*t = TableMapping{Aliases: flat}
	return nil
}

func isStructured(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if key == "inherits" || (key == "aliases" && val.Kind == yaml.MappingNode) {
			return true
		}
	}
	return false
}

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	if mf.Tables == nil {
		mf.Tables = map[string]TableMapping{}
	}

	return &mf, nil
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// For resolves the alias map of a table, following inherits chains. A table
// missing from the file has an empty map.
func (mf *MappingFile) For(table string) (AliasMap, error) {
	return mf.resolve(table, nil)
}

func (mf *MappingFile) resolve(table string, chain []string) (AliasMap, error) {
	for _, seen := range chain {
		if seen == table {
			return nil, fmt.Errorf("%w: inheritance cycle %s -> %s", ErrInvalidMapping, strings.Join(chain, " -> "), table)
		}
	}

	tm, ok := mf.Tables[table]
	if !ok {
		if len(chain) > 0 {
			return nil, fmt.Errorf("%w: %s inherits unknown table %s", ErrInvalidMapping, chain[len(chain)-1], table)
		}
		return AliasMap{}, nil
	}
	if tm.Inherits == "" {
		return tm.Aliases.clone(), nil
	}

	parent, err := mf.resolve(tm.Inherits, append(chain, table))
	if err != nil {
		return nil, err
	}
	return parent.Extend(tm.Aliases), nil
}
