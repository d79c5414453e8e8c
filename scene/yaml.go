package scene

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// docVersion is the current on-disk document version.
const docVersion = 1

// document is the serialized form of a Scene, shared by the YAML files and
// the msgpack bag frames. Maps are flattened into sorted slices so the
// output is deterministic.
type document struct {
	Version     int             `yaml:"version" msgpack:"version"`
	Objects     []objectDoc     `yaml:"objects,omitempty" msgpack:"objects,omitempty"`
	Attachments []attachmentDoc `yaml:"attachments,omitempty" msgpack:"attachments,omitempty"`
	// AllowedCollisions lists each allowed pair once, lexicographically.
	AllowedCollisions []collisionPair    `yaml:"allowed_collisions,omitempty" msgpack:"allowed_collisions,omitempty"`
	RobotState        map[string]float64 `yaml:"robot_state,omitempty" msgpack:"robot_state,omitempty"`
}

type objectDoc struct {
	Name     string   `yaml:"name" msgpack:"name"`
	Geometry Geometry `yaml:"geometry" msgpack:"geometry"`
	Pose     Pose     `yaml:"pose" msgpack:"pose"`
}

type attachmentDoc struct {
	Object     string   `yaml:"object" msgpack:"object"`
	Link       string   `yaml:"link" msgpack:"link"`
	TouchLinks []string `yaml:"touch_links,omitempty,flow" msgpack:"touch_links,omitempty"`
}

type collisionPair struct {
	First  string `yaml:"first" msgpack:"first"`
	Second string `yaml:"second" msgpack:"second"`
}

// toDocument flattens the scene into its serialized form.
func (s *Scene) toDocument() *document {
	doc := &document{Version: docVersion}

	for _, name := range s.ObjectNames() {
		o := s.objects[name]
		doc.Objects = append(doc.Objects, objectDoc{
			Name:     name,
			Geometry: *o.Geometry,
			Pose:     o.Pose,
		})
	}

	attached := make([]string, 0, len(s.attachments))
	for name := range s.attachments {
		attached = append(attached, name)
	}
	sort.Strings(attached)
	for _, name := range attached {
		a := s.attachments[name]
		doc.Attachments = append(doc.Attachments, attachmentDoc{
			Object:     name,
			Link:       a.Link,
			TouchLinks: a.TouchLinks,
		})
	}

	for a, row := range s.acm {
		for b := range row {
			if a < b {
				doc.AllowedCollisions = append(doc.AllowedCollisions, collisionPair{First: a, Second: b})
			}
		}
	}
	sort.Slice(doc.AllowedCollisions, func(i, j int) bool {
		p, q := doc.AllowedCollisions[i], doc.AllowedCollisions[j]
		if p.First != q.First {
			return p.First < q.First
		}
		return p.Second < q.Second
	})

	if len(s.robotState) > 0 {
		doc.RobotState = make(map[string]float64, len(s.robotState))
		for joint, p := range s.robotState {
			doc.RobotState[joint] = p
		}
	}
	return doc
}

// fromDocument rebuilds a scene from its serialized form.
func fromDocument(doc *document) (*Scene, error) {
	if doc.Version != docVersion {
		return nil, fmt.Errorf("scene: unsupported document version %d", doc.Version)
	}
	s := New()
	for i := range doc.Objects {
		od := &doc.Objects[i]
		geom := od.Geometry
		if err := s.UpsertObject(od.Name, &geom, od.Pose); err != nil {
			return nil, err
		}
	}
	for _, ad := range doc.Attachments {
		if err := s.AttachObject(ad.Object, ad.Link, ad.TouchLinks...); err != nil {
			return nil, err
		}
	}
	for _, pair := range doc.AllowedCollisions {
		s.AllowCollision(pair.First, pair.Second)
	}
	for joint, p := range doc.RobotState {
		s.SetJointPosition(joint, p)
	}
	return s, nil
}

// Encode writes the scene to w as YAML.
func (s *Scene) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.toDocument()); err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML scene document from r.
func Decode(r io.Reader) (*Scene, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	return fromDocument(&doc)
}

// Save writes the scene to a YAML file.
func (s *Scene) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a scene from a YAML file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
