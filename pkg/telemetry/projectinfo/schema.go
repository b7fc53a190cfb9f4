package projectinfo

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Schema describes the lists of a project.
//
//	lists:
//	  Post:
//	    fields:
//	      title: text
//	      author: relationship
type Schema struct {
	Lists map[string]List `yaml:"lists"`
}

// List maps field names to field types.
type List struct {
	Fields map[string]string `yaml:"fields"`
}

// FieldCounts returns how many fields of each type the schema declares.
func (s Schema) FieldCounts() map[string]int {
	counts := map[string]int{}
	for _, list := range s.Lists {
		for _, fieldType := range list.Fields {
			counts[fieldType]++
		}
	}
	return counts
}

// LoadSchema reads a schema description from a YAML file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema: %w", err)
	}

	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	return schema, nil
}
