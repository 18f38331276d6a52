package param

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/platinummonkey/visual/pkg/color"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Manifest declares a set of parameters and their default values
type Manifest struct {
	Params []Spec `yaml:"params"`
}

// Spec is one manifest declaration. Default is decoded according to the
// declared type: ints, floats and strings as scalars, colors as "#RRGGBB" or
// [r, g, b], palettes as a list of colors.
type Spec struct {
	Info    `yaml:",inline"`
	Default *yaml.Node `yaml:"default,omitempty"`
}

// ValidationError describes one problem found in a manifest
type ValidationError struct {
	Field   string
	Message string
}

// UnmarshalYAML decodes the default through a value node, since yaml.v3
// only fills node pointers for mapping content. An explicit null counts as
// no default.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Info    `yaml:",inline"`
		Default yaml.Node `yaml:"default"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.Info = raw.Info
	s.Default = nil
	if raw.Default.Kind != 0 && raw.Default.ShortTag() != "!!null" {
		def := raw.Default
		s.Default = &def
	}
	return nil
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadManifest loads and validates a manifest from a file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// ParseManifest parses and validates manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if errs := ValidateManifest(&manifest); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("invalid manifest: %w", errors.Join(joined...))
	}

	return &manifest, nil
}

// EncodeManifest renders a manifest as YAML
func EncodeManifest(manifest *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// SaveManifest saves a manifest to a file
func SaveManifest(manifest *Manifest, path string) error {
	data, err := EncodeManifest(manifest)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// LoadManifests loads several manifests concurrently. Results keep the order
// of paths; the first failure cancels the remaining loads.
func LoadManifests(ctx context.Context, paths []string) ([]*Manifest, error) {
	eg, ctx := errgroup.WithContext(ctx)
	results := make([]*Manifest, len(paths))

	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := LoadManifest(path)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Merge combines manifests in order. A later declaration with the same name
// replaces the earlier one in place.
func Merge(manifests ...*Manifest) *Manifest {
	merged := &Manifest{}
	index := make(map[string]int)

	for _, m := range manifests {
		if m == nil {
			continue
		}
		for _, spec := range m.Params {
			if i, ok := index[spec.Name]; ok {
				merged.Params[i] = spec
				continue
			}
			index[spec.Name] = len(merged.Params)
			merged.Params = append(merged.Params, spec)
		}
	}

	return merged
}

// ValidateManifest performs basic validation on a manifest
func ValidateManifest(manifest *Manifest) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for i, spec := range manifest.Params {
		field := fmt.Sprintf("params[%d]", i)

		if spec.Name == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "Param name is required",
			})
			continue
		}
		if seen[spec.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("Duplicate param name %q", spec.Name),
			})
		}
		seen[spec.Name] = true

		if spec.Default == nil {
			continue
		}
		if _, err := spec.Value(); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".default",
				Message: err.Error(),
			})
		}
	}

	return errs
}

// Value decodes the default into a new Value. A missing default yields an
// unset value. The caller owns the result and must Unset it.
func (s Spec) Value() (*Value, error) {
	v := &Value{}
	if s.Default == nil {
		return v, nil
	}

	switch s.Type {
	case TypeInt:
		var i int
		if err := s.Default.Decode(&i); err != nil {
			return nil, fmt.Errorf("decode int default: %w", err)
		}
		v.SetInt(i)
	case TypeFloat:
		var f float32
		if err := s.Default.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode float default: %w", err)
		}
		v.SetFloat(f)
	case TypeDouble:
		var d float64
		if err := s.Default.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode double default: %w", err)
		}
		v.SetDouble(d)
	case TypeString:
		var str string
		if err := s.Default.Decode(&str); err != nil {
			return nil, fmt.Errorf("decode string default: %w", err)
		}
		v.SetString(str)
	case TypeColor:
		rgba, err := decodeColor(s.Default)
		if err != nil {
			return nil, err
		}
		c := color.FromRGBA(rgba)
		err = v.SetColorByColor(c)
		c.Unref()
		if err != nil {
			return nil, err
		}
	case TypePalette:
		if s.Default.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("palette default must be a list of colors")
		}
		p := color.NewPalette(len(s.Default.Content))
		for i, node := range s.Default.Content {
			c, err := decodeColor(node)
			if err != nil {
				p.Unref()
				return nil, fmt.Errorf("palette entry %d: %w", i, err)
			}
			p.Set(i, c)
		}
		err := v.SetPalette(p)
		p.Unref()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("type %s has no manifest default", s.Type)
	}

	return v, nil
}

func decodeColor(node *yaml.Node) (color.RGBA, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return color.ParseHex(node.Value)
	case yaml.SequenceNode:
		var channels []uint8
		if err := node.Decode(&channels); err != nil {
			return color.RGBA{}, fmt.Errorf("decode color: %w", err)
		}
		switch len(channels) {
		case 3:
			return color.RGB(channels[0], channels[1], channels[2]), nil
		case 4:
			return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
		}
		return color.RGBA{}, fmt.Errorf("color needs 3 or 4 channels, got %d", len(channels))
	}
	return color.RGBA{}, fmt.Errorf("color must be a hex string or a channel list")
}

// Container builds a container holding every declaration with its default
// applied.
func (m *Manifest) Container(cacheSize int) (*Container, error) {
	c := NewContainer(cacheSize)
	if err := m.Apply(c); err != nil {
		c.Unref()
		return nil, err
	}
	return c, nil
}

// Apply declares missing parameters in c and sets every default. Parameters
// without a default keep their current value.
func (m *Manifest) Apply(c *Container) error {
	for _, spec := range m.Params {
		if _, ok := c.Entry(spec.Name); !ok {
			if err := c.Add(spec.Info); err != nil {
				return err
			}
		}

		if spec.Default == nil {
			continue
		}

		v, err := spec.Value()
		if err != nil {
			return fmt.Errorf("param %q: %w", spec.Name, err)
		}
		err = c.SetParamValue(spec.Name, v)
		v.Unset()
		if err != nil {
			return err
		}
	}
	return nil
}

// ManifestFromContainer snapshots the visible entries of c. Values that
// cannot be written as defaults (objects, collections) are left out.
func ManifestFromContainer(c *Container) (*Manifest, error) {
	m := &Manifest{}
	seen := make(map[string]bool)

	for info, v := range c.All() {
		if seen[info.Name] {
			continue
		}
		seen[info.Name] = true

		spec := Spec{Info: info}
		if def := defaultOf(v); def != nil {
			spec.Default = &yaml.Node{}
			if err := spec.Default.Encode(def); err != nil {
				return nil, fmt.Errorf("encode default for %q: %w", info.Name, err)
			}
		}
		m.Params = append(m.Params, spec)
	}

	return m, nil
}

func defaultOf(v *Value) any {
	switch v.Type() {
	case TypeInt, TypeFloat, TypeDouble, TypeString, TypeColor, TypePalette:
		return v.Interface()
	}
	return nil
}
