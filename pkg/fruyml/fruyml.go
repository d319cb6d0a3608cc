// Package fruyml renders decoded FRU trees as YAML documents and loads
// them back. String encoding tags survive as YAML local tags: !hex, !bcd
// and !packed always, !latin1 and !ucs2le only when the value's encoding
// disagrees with what the table's language byte implies. Untagged strings
// load with the auto encoding and let the encoder pick. Dates are RFC
// 3339 timestamps; undecoded areas are literal block scalars starting
// with "hex:".
package fruyml

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/frukit/pkg/fru"
)

// Dump renders tree as a YAML document, areas and fields in tree order.
func Dump(tree *fru.Tree) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range tree.Areas() {
		n, err := areaNode(a.Value)
		if err != nil {
			return nil, fmt.Errorf("area %s: %w", a.Name, err)
		}
		root.Content = append(root.Content, keyNode(a.Name), n)
	}
	return yaml.Marshal(root)
}

// Load parses a YAML document produced by Dump (or written by hand) into
// a tree. Names are not validated here; the FRU encoder rejects unknown
// areas and fields with their dotted paths.
func Load(data []byte) (*fru.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping of areas, got %s", kindName(root.Kind))
	}

	tree := fru.NewTree()
	for i := 0; i < len(root.Content); i += 2 {
		name := root.Content[i].Value
		v, err := loadArea(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("area %s: %w", name, err)
		}
		if v != nil {
			tree.Set(name, v)
		}
	}
	return tree, nil
}

func areaNode(v fru.AreaValue) (*yaml.Node, error) {
	switch v := v.(type) {
	case *fru.Table:
		return tableNode(v)
	case fru.HexBlob:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Style: yaml.LiteralStyle,
			Value: string(v),
		}, nil
	}
	return nil, fmt.Errorf("unsupported area value %T", v)
}

func tableNode(t *fru.Table) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.Entries() {
		n, err := valueNode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		out.Content = append(out.Content, keyNode(e.Name), n)
	}
	return out, nil
}

func valueNode(v fru.Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case fru.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(int(v))}, nil
	case fru.Date:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!timestamp",
			Value: time.Time(v).UTC().Format(time.RFC3339),
		}, nil
	case fru.String:
		return stringNode(v), nil
	case fru.StringList:
		out := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range v {
			out.Content = append(out.Content, stringNode(s))
		}
		if len(out.Content) == 0 {
			out.Style = yaml.FlowStyle
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

func stringNode(s fru.String) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Text}
	switch s.Encoding {
	case fru.EncodingHex, fru.EncodingBCD, fru.EncodingPacked:
		n.Tag = "!" + s.Encoding.String()
	case fru.EncodingLatin1, fru.EncodingUCS2:
		// Matching the language byte is the normal case and stays
		// untagged; only a deviation needs to be pinned down.
		if s.LangMismatch {
			n.Tag = "!" + s.Encoding.String()
		}
	}
	return n
}

func loadArea(n *yaml.Node) (fru.AreaValue, error) {
	switch n.Kind {
	case yaml.MappingNode:
		t := fru.NewTable()
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			v, err := loadValue(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if v != nil {
				t.Set(name, v)
			}
		}
		return t, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		if n.Tag == "!!str" {
			return fru.HexBlob(n.Value), nil
		}
	}
	return nil, fmt.Errorf("expected field mapping or hex block, got %s", kindName(n.Kind))
}

func loadValue(n *yaml.Node) (fru.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return loadScalar(n)
	case yaml.SequenceNode:
		out := fru.StringList{}
		for _, c := range n.Content {
			v, err := loadScalar(c)
			if err != nil {
				return nil, err
			}
			s, ok := v.(fru.String)
			if !ok {
				return nil, fmt.Errorf("list elements must be strings, got %s", c.Tag)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported yaml node %s", kindName(n.Kind))
}

func loadScalar(n *yaml.Node) (fru.Value, error) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", n.Value, err)
		}
		return fru.Int(i), nil
	case "!!timestamp":
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, n.Value); err == nil {
				return fru.Date(ts.UTC()), nil
			}
		}
		return nil, fmt.Errorf("invalid timestamp %q", n.Value)
	case "!!str":
		return fru.String{Text: n.Value}, nil
	}
	if len(n.Tag) > 1 && n.Tag[0] == '!' && n.Tag[1] != '!' {
		enc, err := fru.ParseEncoding(n.Tag[1:])
		if err != nil {
			return nil, fmt.Errorf("unknown string tag %s", n.Tag)
		}
		return fru.String{Text: n.Value, Encoding: enc}, nil
	}
	return nil, fmt.Errorf("unsupported scalar tag %s", n.Tag)
}

func keyNode(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
