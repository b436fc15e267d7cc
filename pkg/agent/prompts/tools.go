package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/webpilot/pkg/agent/tools"
)

// FormatToolSchema renders one tool for the <available_tools> section:
// name, description, parameters and an example call.
func FormatToolSchema(tool tools.Tool) string {
	var b strings.Builder
	schema := tool.Schema()

	b.WriteString(fmt.Sprintf("## %s\n", tool.Name()))
	b.WriteString(tool.Description())
	b.WriteString("\n\n")

	props, _ := schema["properties"].(map[string]interface{})
	if len(props) == 0 {
		b.WriteString("Parameters: none\n")
	} else {
		required := requiredFields(schema)
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("Parameters:\n")
		for _, name := range names {
			prop, _ := props[name].(map[string]interface{})
			b.WriteString(formatParameter(name, prop, required[name]))
		}
	}

	b.WriteString("\nExample:\n")
	b.WriteString(GenerateXMLExample(schema, tool.Name()))
	b.WriteString("\n")
	return b.String()
}

func formatParameter(name string, prop map[string]interface{}, required bool) string {
	typ, _ := prop["type"].(string)
	desc, _ := prop["description"].(string)

	flag := "optional"
	if required {
		flag = "required"
	}

	line := fmt.Sprintf("- %s (%s, %s): %s", name, typ, flag, desc)
	if enum, ok := prop["enum"].([]string); ok && len(enum) > 0 {
		line += fmt.Sprintf(" One of: %s.", strings.Join(enum, ", "))
	}
	return line + "\n"
}

// FormatToolSchemas renders every tool in order, separated by blank lines.
func FormatToolSchemas(toolsList []tools.Tool) string {
	if len(toolsList) == 0 {
		return "No tools available.\n"
	}

	parts := make([]string, 0, len(toolsList))
	for _, t := range toolsList {
		parts = append(parts, FormatToolSchema(t))
	}
	return strings.Join(parts, "\n")
}
