// Package querytest loads data-driven query scenarios from YAML
// fixtures: a plain struct decoded with gopkg.in/yaml.v2, one entry
// per test case, read once at test setup.
package querytest

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v2"
)

// Case is one query scenario: the query text, whether it's expected to
// fail compilation, and (for queries expected to succeed) the table
// name and projection width the compiler should produce.
type Case struct {
	Name       string `yaml:"name"`
	Query      string `yaml:"query"`
	WantErr    bool   `yaml:"want_err"`
	WantTable  string `yaml:"want_table"`
	WantFields int    `yaml:"want_fields"`
}

// Load decodes a YAML file of Cases.
func Load(path string) ([]Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "querytest: reading %s", path)
	}
	var cases []Case
	if err := yaml.Unmarshal(b, &cases); err != nil {
		return nil, errors.Wrapf(err, "querytest: parsing %s", path)
	}
	return cases, nil
}
