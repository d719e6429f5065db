package generator

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// sizeHintKeys are the per-resource properties worth surfacing to the
// pricing tools next to the resource count.
var sizeHintKeys = []string{"InstanceType", "DBInstanceClass", "CacheNodeType", "AllocatedStorage", "Engine"}

// SummarizeTemplate reduces a CloudFormation template to a compact,
// deterministic resource-count listing (type, count, size-class hints) so
// the pricing prompt stays small instead of carrying the full template.
// The template is walked as a YAML AST because CloudFormation short-form
// intrinsics (!Ref, !Sub) are not resolvable tags.
func SummarizeTemplate(template string) (string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(template), &root); err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return "", fmt.Errorf("empty template document")
		}
		doc = doc.Content[0]
	}

	resources := mappingValue(doc, "Resources")
	if resources == nil || resources.Kind != yaml.MappingNode {
		return "", fmt.Errorf("template has no Resources map")
	}

	counts := make(map[string]int)
	hints := make(map[string][]string)

	for i := 0; i+1 < len(resources.Content); i += 2 {
		res := resources.Content[i+1]
		if res.Kind != yaml.MappingNode {
			continue
		}
		typeNode := mappingValue(res, "Type")
		if typeNode == nil || typeNode.Kind != yaml.ScalarNode || typeNode.Value == "" {
			continue
		}
		resType := typeNode.Value
		counts[resType]++

		props := mappingValue(res, "Properties")
		if props == nil || props.Kind != yaml.MappingNode {
			continue
		}
		for _, key := range sizeHintKeys {
			v := mappingValue(props, key)
			if v == nil || v.Kind != yaml.ScalarNode || v.Value == "" {
				continue
			}
			hint := key + "=" + v.Value
			if !containsString(hints[resType], hint) {
				hints[resType] = append(hints[resType], hint)
			}
		}
	}

	if len(counts) == 0 {
		return "", fmt.Errorf("template declares no typed resources")
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	for _, t := range types {
		fmt.Fprintf(&b, "- %s x%d", t, counts[t])
		if len(hints[t]) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(hints[t], ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
