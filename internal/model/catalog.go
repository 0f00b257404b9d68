package model

import (
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a calculated-field catalogue from a YAML file. The file
// has a top-level "fields" key holding a list of field definitions.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read catalog %s", path)
	}

	var wrapper struct {
		Fields []CalculatedField `yaml:"fields"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "model: parse catalog")
	}

	for i := range wrapper.Fields {
		if wrapper.Fields[i].Slug == "" {
			return nil, eris.Errorf("model: catalog field %d has no slug", i)
		}
	}

	return NewCatalog(wrapper.Fields), nil
}

// LoadRecords reads a record set from a YAML file with a top-level
// "records" key holding a list of attribute maps.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read records %s", path)
	}

	var wrapper struct {
		Records []Record `yaml:"records"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "model: parse records")
	}

	return wrapper.Records, nil
}

func newID() string {
	return uuid.NewString()
}
