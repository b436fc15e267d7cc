package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/entrhq/webpilot/pkg/logging"
)

var dispatchLog *logging.Logger

func init() {
	var err error
	dispatchLog, err = logging.NewLogger("tools")
	if err != nil {
		dispatchLog.Warnf("falling back to stderr logging: %v", err)
	}
}

type entry struct {
	tool   Tool
	schema *gojsonschema.Schema
}

// Registry holds the tools available to one agent role and dispatches calls
// to them. Registration is keyed by name; registering a name twice replaces
// the earlier tool.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]entry
}

// NewRegistry creates a registry holding tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]entry)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register stores t, replacing any tool with the same name. A schema that
// does not compile is logged and the tool is registered without validation.
func (r *Registry) Register(t Tool) {
	e := entry{tool: t}
	if raw := t.Schema(); raw != nil {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
		if err != nil {
			dispatchLog.Errorf("schema for %s does not compile, arguments will not be validated: %v", t.Name(), err)
		} else {
			e.schema = schema
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		dispatchLog.Debugf("replacing tool %s", t.Name())
	}
	r.tools[t.Name()] = e
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.tool, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered tools sorted by name.
func (r *Registry) All() []Tool {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name].tool)
	}
	return out
}

// Execute validates the call's arguments and runs the tool. It never returns
// an error and never panics: unknown tools, invalid arguments, handler errors
// and handler panics all come back as failed Results the model can read.
func (r *Registry) Execute(ctx context.Context, call *ToolCall) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			dispatchLog.Errorf("tool %s panicked: %v", call.ToolName, rec)
			result = Failure(fmt.Sprintf("Error executing tool %s: panic: %v", call.ToolName, rec))
		}
	}()

	r.mu.RLock()
	e, ok := r.tools[call.ToolName]
	r.mu.RUnlock()
	if !ok {
		return Failure(fmt.Sprintf("Error: unknown tool '%s'. Available tools: %s", call.ToolName, strings.Join(r.Names(), ", ")))
	}

	argsXML := call.GetArgumentsXML()
	if e.schema != nil {
		if msg := validateArguments(e.schema, e.tool.Schema(), argsXML); msg != "" {
			return Failure(fmt.Sprintf("Error: invalid arguments for %s: %s", call.ToolName, msg))
		}
	}

	res, err := e.tool.Execute(ctx, argsXML)
	if err != nil {
		dispatchLog.Warnf("tool %s failed: %v", call.ToolName, err)
		return Failure(fmt.Sprintf("Error executing tool %s: %v", call.ToolName, err))
	}
	return res
}

// validateArguments returns "" when argsXML satisfies schema, and a
// semicolon-separated list of problems otherwise.
func validateArguments(schema *gojsonschema.Schema, raw map[string]interface{}, argsXML []byte) string {
	args, err := XMLToMap(argsXML)
	if err != nil {
		return fmt.Sprintf("could not parse XML: %v", err)
	}
	coerceArguments(args, raw)

	res, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Sprintf("could not validate: %v", err)
	}
	if res.Valid() {
		return ""
	}

	problems := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		problems = append(problems, desc.String())
	}
	return strings.Join(problems, "; ")
}

// coerceArguments converts XML text values to the types the schema declares.
// Values that do not convert are left as strings so validation reports them.
func coerceArguments(args map[string]interface{}, schema map[string]interface{}) {
	props, _ := schema["properties"].(map[string]interface{})
	for name, value := range args {
		text, ok := value.(string)
		if !ok {
			continue
		}
		prop, _ := props[name].(map[string]interface{})
		switch prop["type"] {
		case "integer":
			if n, err := strconv.Atoi(text); err == nil {
				args[name] = n
			}
		case "number":
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				args[name] = f
			}
		case "boolean":
			if b, err := strconv.ParseBool(text); err == nil {
				args[name] = b
			}
		}
	}
}

// ArgumentsMap returns the call's arguments as a flat map for events and
// logs. Unparseable arguments yield an empty map.
func ArgumentsMap(call *ToolCall) map[string]interface{} {
	args, err := XMLToMap(call.GetArgumentsXML())
	if err != nil {
		return map[string]interface{}{}
	}
	return args
}
