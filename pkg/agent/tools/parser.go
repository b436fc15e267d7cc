package tools

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultServerName = "local"
	maxXMLSize        = 10 * 1024 * 1024 // 10MB limit for XML tool calls
)

// toolRegex matches one <tool> block, lazily so consecutive blocks stay apart.
var toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

// ParseToolCalls extracts every tool call from an LLM response, in order.
//
// Expected format (pure XML, CDATA allowed for free text):
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>type_text</tool_name>
//	<arguments>
//	  <selector>input[name="q"]</selector>
//	  <text><![CDATA[shoes & socks]]></text>
//	</arguments>
//	</tool>
//
// Each parsed call gets a fresh id. reasoning is the response text with all
// tool blocks removed. Blocks that fail to parse are skipped and reported in
// err; the calls that did parse are still returned.
func ParseToolCalls(text string) (calls []*ToolCall, reasoning string, err error) {
	if len(text) > maxXMLSize {
		return nil, text, fmt.Errorf("tool call XML exceeds maximum size of %d bytes", maxXMLSize)
	}

	var errs []error
	for _, block := range toolRegex.FindAllString(text, -1) {
		call, parseErr := parseBlock(block)
		if parseErr != nil {
			errs = append(errs, parseErr)
			continue
		}
		calls = append(calls, call)
	}

	reasoning = strings.TrimSpace(toolRegex.ReplaceAllString(text, ""))
	return calls, reasoning, errors.Join(errs...)
}

func parseBlock(block string) (*ToolCall, error) {
	toolXML := strings.TrimSpace(block)

	var toolCall ToolCall
	if err := UnmarshalXMLWithFallback([]byte(toolXML), &toolCall); err != nil {
		snippet := toolXML
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, fmt.Errorf("failed to unmarshal tool call XML: %w\nXML snippet: %s", err, snippet)
	}

	toolCall.ToolName = strings.TrimSpace(toolCall.ToolName)
	if toolCall.ToolName == "" {
		return nil, fmt.Errorf("tool_name is required in tool call")
	}

	// Server name defaults to "local" if not specified
	if toolCall.ServerName == "" {
		toolCall.ServerName = defaultServerName
	}
	toolCall.ID = uuid.NewString()

	return &toolCall, nil
}

// HasToolCall checks if the text contains a tool call.
func HasToolCall(text string) bool {
	return toolRegex.MatchString(text)
}

// UnmarshalXMLWithFallback unmarshals data into v. Models often write a
// bare '&' in free text, so when the first parse fails the bare ampersands
// are escaped and the parse is retried once.
func UnmarshalXMLWithFallback(data []byte, v interface{}) error {
	if err := xml.Unmarshal(data, v); err == nil {
		return nil
	}
	return xml.Unmarshal(escapeBareAmpersands(data), v)
}

// entityOrAmpersand matches a well-formed entity or, failing that, a lone '&'.
var entityOrAmpersand = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);|&`)

func escapeBareAmpersands(data []byte) []byte {
	return entityOrAmpersand.ReplaceAllFunc(data, func(m []byte) []byte {
		if len(m) == 1 {
			return []byte("&amp;")
		}
		return m
	})
}

// XMLToMap flattens the direct children of an <arguments> element into a
// map of trimmed text values. Empty elements are omitted and nested markup
// is ignored. Bare ampersands get the same retry as UnmarshalXMLWithFallback.
func XMLToMap(data []byte) (map[string]interface{}, error) {
	result, err := xmlToMap(data)
	if err == nil {
		return result, nil
	}
	return xmlToMap(escapeBareAmpersands(data))
}

func xmlToMap(data []byte) (map[string]interface{}, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	result := make(map[string]interface{})

	// depth 1 is <arguments>, depth 2 its fields.
	depth := 0
	var field string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				if v := strings.TrimSpace(text.String()); v != "" {
					result[field] = v
				}
			}
			depth--
		}
	}
}
