// Package yamldef builds constmodel models from declarative YAML documents:
//
//	models:
//	  - name: Animal
//	    fields: [name, flies]
//	    members:
//	      - {name: DOG, values: [Dog, false]}
//	      - {name: BIRD, values: [Bird, true]}
//	  - name: Bird
//	    extends: [Animal]
//	    members:
//	      - {name: EAGLE, values: [Eagle, true]}
//
// Member declarations are ordered lists, not mappings, so declaration order
// survives decoding. A model may only extend models defined earlier in the
// same document.
package yamldef

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/constkit/constmodel"
)

// File is the top-level YAML document.
type File struct {
	Models []ModelDef `yaml:"models"`
}

// ModelDef declares one model.
type ModelDef struct {
	Name        string      `yaml:"name"`
	Fields      []string    `yaml:"fields"`
	IndexFields []string    `yaml:"index_fields"`
	Extends     []string    `yaml:"extends"`
	Members     []MemberDef `yaml:"members"`
}

// MemberDef declares one member with positional field values.
type MemberDef struct {
	Name   string `yaml:"name"`
	Values []any  `yaml:"values"`
}

// Set holds the models built from one document, in document order.
type Set struct {
	order  []string
	models map[string]*constmodel.Model
}

// Model returns a model by name.
func (s *Set) Model(name string) (*constmodel.Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Models returns every model in document order.
func (s *Set) Models() []*constmodel.Model {
	out := make([]*constmodel.Model, len(s.order))
	for i, name := range s.order {
		out[i] = s.models[name]
	}
	return out
}

// Load decodes a YAML document and constructs its models. The shared options
// (logger, placeholder policy) are applied to every model.
func Load(r io.Reader, shared ...constmodel.Option) (*Set, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("yamldef: decode: %w", err)
	}
	return build(&f, shared)
}

func build(f *File, shared []constmodel.Option) (*Set, error) {
	set := &Set{models: make(map[string]*constmodel.Model, len(f.Models))}
	for _, def := range f.Models {
		if _, ok := set.models[def.Name]; ok {
			return nil, fmt.Errorf("yamldef: model %q defined twice", def.Name)
		}

		opts := append([]constmodel.Option(nil), shared...)
		if len(def.Fields) > 0 {
			opts = append(opts, constmodel.Fields(def.Fields...))
		}
		if len(def.IndexFields) > 0 {
			opts = append(opts, constmodel.IndexFields(def.IndexFields...))
		}
		for _, parent := range def.Extends {
			p, ok := set.models[parent]
			if !ok {
				return nil, fmt.Errorf("yamldef: model %q extends %q, which is not defined earlier in the document", def.Name, parent)
			}
			opts = append(opts, constmodel.Extends(p))
		}
		for _, mem := range def.Members {
			opts = append(opts, constmodel.Declare(mem.Name, mem.Values...))
		}

		m, err := constmodel.New(def.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("yamldef: model %q: %w", def.Name, err)
		}
		set.models[def.Name] = m
		set.order = append(set.order, def.Name)
	}
	return set, nil
}
