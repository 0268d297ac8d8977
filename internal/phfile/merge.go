package phfile

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"holiday-yaml-sync/internal/holidays"
)

// Reserved keys of a country file.
const (
	HolidayKey = "PH"
	MetaURLKey = "_nominatim_url"
)

var errNotMapping = errors.New("country file is not a mapping")

// Merge replaces the holiday list of a country file with records and keeps
// every other key as it was. The metadata URL, when present, is written first.
func Merge(existing []byte, records []holidays.Record) ([]byte, error) {
	root, err := parseMapping(existing)
	if err != nil {
		return nil, err
	}

	var meta, others []*yaml.Node
	dropped := make(map[*yaml.Node]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		switch k.Value {
		case MetaURLKey:
			meta = []*yaml.Node{k, v}
		case HolidayKey:
			markTree(v, dropped)
		default:
			others = append(others, k, v)
		}
	}
	for _, n := range others {
		inlineAliases(n, dropped)
	}
	for _, n := range meta {
		inlineAliases(n, dropped)
	}

	list, err := recordsNode(records)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n\n")
	if meta != nil {
		if err := encode(&buf, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: meta}); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}
	body := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	body.Content = append(body.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: HolidayKey}, list)
	body.Content = append(body.Content, others...)
	if err := encode(&buf, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseMapping returns the top-level mapping of data; empty or null documents
// yield an empty mapping.
func parseMapping(data []byte) (*yaml.Node, error) {
	empty := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse country file: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return empty, nil
	}
	root := doc.Content[0]
	switch {
	case root.Kind == yaml.MappingNode:
		return root, nil
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		return empty, nil
	}
	return nil, errNotMapping
}

func markTree(n *yaml.Node, set map[*yaml.Node]bool) {
	set[n] = true
	for _, c := range n.Content {
		markTree(c, set)
	}
}

// inlineAliases replaces aliases to anchors inside the old holiday list with
// a copy of the anchored value, since that list is not written back.
func inlineAliases(n *yaml.Node, dropped map[*yaml.Node]bool) {
	if n.Kind == yaml.AliasNode && dropped[n.Alias] {
		*n = *detach(n.Alias)
		return
	}
	for _, c := range n.Content {
		inlineAliases(c, dropped)
	}
}

// detach deep-copies n without anchors; nested aliases are resolved the same way.
func detach(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode {
		return detach(n.Alias)
	}
	cp := *n
	cp.Anchor = ""
	cp.Content = make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		cp.Content[i] = detach(c)
	}
	return &cp
}

func recordsNode(records []holidays.Record) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(records) == 0 {
		seq.Style = yaml.FlowStyle
		return seq, nil
	}
	for _, r := range records {
		n := &yaml.Node{}
		if err := n.Encode(r); err != nil {
			return nil, fmt.Errorf("encode %q: %w", r.Name, err)
		}
		n.Style = yaml.FlowStyle
		seq.Content = append(seq.Content, n)
	}
	return seq, nil
}

func encode(buf *bytes.Buffer, n *yaml.Node) error {
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}
