package tools

import (
	"context"
	"encoding/xml"
)

// Tool represents a capability that an agent can use during execution.
// Tools are invoked by the LLM through XML-formatted tool calls.
//
// Example tool call format from LLM:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>click</tool_name>
//	<arguments>
//	  <selector>button#submit</selector>
//	  <description>Submit button</description>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "navigate_to")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters.
	// The Registry validates arguments against it before Execute runs.
	Schema() map[string]interface{}

	// Execute runs the tool with the given XML arguments. The arguments
	// should be unmarshaled from XML into the tool's argument struct.
	//
	// A returned error, or a panic, is converted into a failed Result by
	// the Registry, so handlers only need to build a Result for outcomes the
	// model should see as normal output.
	Execute(ctx context.Context, argumentsXML []byte) (Result, error)
}

// ToolCall represents a parsed tool invocation from the LLM's response
type ToolCall struct {
	XMLName    xml.Name       `xml:"tool"`
	ID         string         `xml:"-"`
	ServerName string         `xml:"server_name"`
	ToolName   string         `xml:"tool_name"`
	Arguments  ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags for unmarshaling.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, []byte(prefix)...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, []byte(suffix)...)
	return result
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty is shorthand for a described string schema property.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// EnumProperty is a string property restricted to values.
func EnumProperty(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}

// IntegerProperty is shorthand for a described integer schema property.
func IntegerProperty(description string, minimum int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"minimum":     minimum,
	}
}
