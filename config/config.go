// Package config loads a circuit's static shape — table names, join
// key field names, top-K limit/offset/comparator selection — from a
// YAML document, so a deployment can choose which queries a DBSP
// worker maintains without recompiling (SPEC_FULL.md's ambient stack).
// It produces plain Go structs of names, field names and window
// sizes; key functions and comparators are still written in code when
// the circuit package's constructors are called, so this package adds
// no new relational semantics of its own.
package config

import (
	"io"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

// TableConfig names one input port of the circuit.
type TableConfig struct {
	Name string `yaml:"name"`
}

// FilterConfig names a filter stage. The predicate itself is supplied
// in code — config only carries the stage's name and the name of the
// upstream stage it reads from, for wiring a Graph.
type FilterConfig struct {
	Name     string `yaml:"name"`
	Upstream string `yaml:"upstream"`
}

// JoinConfig describes one stateful equi-join: which field of each
// side's record supplies the join key.
type JoinConfig struct {
	Name        string `yaml:"name"`
	LeftTable   string `yaml:"left_table"`
	RightTable  string `yaml:"right_table"`
	LeftKeyField  string `yaml:"left_key_field"`
	RightKeyField string `yaml:"right_key_field"`
}

// TopKConfig describes one stateful top-K window.
type TopKConfig struct {
	Name          string `yaml:"name"`
	Upstream      string `yaml:"upstream"`
	Limit         int    `yaml:"limit"`
	Offset        int    `yaml:"offset"`
	CompareField  string `yaml:"compare_field"`
	Descending    bool   `yaml:"descending"`
}

// CircuitConfig is the declared shape of one circuit: its input
// tables and the named operator stages wired on top of them.
type CircuitConfig struct {
	Tables  []TableConfig  `yaml:"tables"`
	Filters []FilterConfig `yaml:"filters,omitempty"`
	Joins   []JoinConfig   `yaml:"joins,omitempty"`
	TopKs   []TopKConfig   `yaml:"topks,omitempty"`
}

// Load parses a CircuitConfig from r and validates it.
func Load(r io.Reader) (*CircuitConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Annotate(err, "config: reading circuit configuration")
	}
	var cfg CircuitConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Annotate(err, "config: parsing circuit configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks referential and value constraints that YAML's
// schema can't express on its own: every stage name is unique and
// non-empty, every upstream reference names a table or another stage
// declared earlier, and every top-K window has a positive limit.
func (c *CircuitConfig) Validate() error {
	known := make(map[string]struct{})
	for _, tbl := range c.Tables {
		if tbl.Name == "" {
			return errors.NotValidf("table with empty name")
		}
		if _, dup := known[tbl.Name]; dup {
			return errors.AlreadyExistsf("stage %q", tbl.Name)
		}
		known[tbl.Name] = struct{}{}
	}
	checkStage := func(name, upstream string) error {
		if name == "" {
			return errors.NotValidf("stage with empty name")
		}
		if _, dup := known[name]; dup {
			return errors.AlreadyExistsf("stage %q", name)
		}
		if _, ok := known[upstream]; !ok {
			return errors.NotFoundf("upstream stage %q referenced by %q", upstream, name)
		}
		known[name] = struct{}{}
		return nil
	}
	for _, f := range c.Filters {
		if err := checkStage(f.Name, f.Upstream); err != nil {
			return err
		}
	}
	for _, j := range c.Joins {
		if j.Name == "" {
			return errors.NotValidf("join with empty name")
		}
		if _, dup := known[j.Name]; dup {
			return errors.AlreadyExistsf("stage %q", j.Name)
		}
		if _, ok := known[j.LeftTable]; !ok {
			return errors.NotFoundf("left table %q referenced by join %q", j.LeftTable, j.Name)
		}
		if _, ok := known[j.RightTable]; !ok {
			return errors.NotFoundf("right table %q referenced by join %q", j.RightTable, j.Name)
		}
		if j.LeftKeyField == "" || j.RightKeyField == "" {
			return errors.NotValidf("join %q missing a key field", j.Name)
		}
		known[j.Name] = struct{}{}
	}
	for _, k := range c.TopKs {
		if k.Limit <= 0 {
			return errors.NotValidf("topk %q limit must be positive", k.Name)
		}
		if k.Offset < 0 {
			return errors.NotValidf("topk %q offset must be non-negative", k.Name)
		}
		if err := checkStage(k.Name, k.Upstream); err != nil {
			return err
		}
	}
	return nil
}
