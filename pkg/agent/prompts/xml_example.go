package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateXMLExample creates a concrete XML call for toolName from its JSON
// Schema. Only required properties appear in the example.
func GenerateXMLExample(schema map[string]interface{}, toolName string) string {
	var builder strings.Builder

	builder.WriteString("<tool>\n")
	builder.WriteString("<server_name>local</server_name>\n")
	builder.WriteString(fmt.Sprintf("<tool_name>%s</tool_name>\n", toolName))
	builder.WriteString("<arguments>\n")

	properties, ok := schema["properties"].(map[string]interface{})
	if ok && len(properties) > 0 {
		required := requiredFields(schema)

		// Schema property order is a map; sort for a stable prompt.
		names := make([]string, 0, len(properties))
		for name := range properties {
			if required[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			propMap, ok := properties[name].(map[string]interface{})
			if !ok {
				continue
			}
			builder.WriteString(generatePropertyExample(name, propMap, "  "))
		}
	}

	builder.WriteString("</arguments>\n")
	builder.WriteString("</tool>")

	return builder.String()
}

// requiredFields accepts both []string (schemas built in Go) and
// []interface{} (schemas decoded from JSON).
func requiredFields(schema map[string]interface{}) map[string]bool {
	fields := make(map[string]bool)
	switch req := schema["required"].(type) {
	case []string:
		for _, f := range req {
			fields[f] = true
		}
	case []interface{}:
		for _, f := range req {
			if s, ok := f.(string); ok {
				fields[s] = true
			}
		}
	}
	return fields
}

// generatePropertyExample creates an XML example for a single property
func generatePropertyExample(name string, propSchema map[string]interface{}, indent string) string {
	propType, _ := propSchema["type"].(string) //nolint:errcheck

	switch propType {
	case "string":
		return fmt.Sprintf("%s<%s>%s</%s>\n", indent, name, stringExample(name, propSchema), name)
	case "integer":
		return fmt.Sprintf("%s<%s>500</%s>\n", indent, name, name)
	case "number":
		return fmt.Sprintf("%s<%s>1.5</%s>\n", indent, name, name)
	case "boolean":
		return fmt.Sprintf("%s<%s>true</%s>\n", indent, name, name)
	default:
		return fmt.Sprintf("%s<%s>value</%s>\n", indent, name, name)
	}
}

// stringExample picks a plausible value: the first enum entry, or a
// realistic value for the argument names browser tools share.
func stringExample(name string, propSchema map[string]interface{}) string {
	switch enum := propSchema["enum"].(type) {
	case []string:
		if len(enum) > 0 {
			return enum[0]
		}
	case []interface{}:
		if len(enum) > 0 {
			if s, ok := enum[0].(string); ok {
				return s
			}
		}
	}

	switch name {
	case "selector":
		return "button:has-text('Search')"
	case "url":
		return "https://example.com"
	case "text":
		return "wireless headphones"
	default:
		return "value"
	}
}
