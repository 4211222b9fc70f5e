package werrors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	"E001": {
		Category:   CategoryRuntime,
		Message:    "Reentrant update depth exceeded",
		Detail:     "A computation wrote a store key it also reads, re-triggering itself past the configured depth limit.",
		Suggestion: "Move the write out of the render path, or read the key with Peek() so the write does not re-trigger the computation.",
		DocURL:     "https://weft-ui.dev/docs/errors/E001",
	},
	"E002": {
		Category:   CategoryRuntime,
		Message:    "Factory returned no render function",
		Detail:     "An element factory returned nil instead of a render function, so the instance has nothing to run.",
		Suggestion: "Return a func() any from the factory, even if it renders an empty description.",
		DocURL:     "https://weft-ui.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Render failed",
		Detail:   "The renderer returned an error while painting an instance's description. The failure surfaces out of the write that triggered the render; the instance is left as the renderer left it.",
		DocURL:   "https://weft-ui.dev/docs/errors/E003",
	},

	// ============================================
	// Registry Errors (E020-E039)
	// ============================================

	"E020": {
		Category:   CategoryRegistry,
		Message:    "Element name already defined",
		Detail:     "An element was registered under a name that is already taken in this registry.",
		Suggestion: "Element names are unique per registry. Pick a different name or use a separate registry.",
		DocURL:     "https://weft-ui.dev/docs/errors/E020",
	},
	"E021": {
		Category:   CategoryRegistry,
		Message:    "Invalid element name",
		Detail:     "Element names must be non-empty and should contain a hyphen, matching the custom-element convention.",
		DocURL:     "https://weft-ui.dev/docs/errors/E021",
	},
	"E022": {
		Category: CategoryRegistry,
		Message:  "Element not defined",
		Detail:   "No element is registered under the requested name.",
		DocURL:   "https://weft-ui.dev/docs/errors/E022",
	},

	// ============================================
	// Protocol Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryProtocol,
		Message:  "Malformed client frame",
		Detail:   "The development server received a WebSocket frame it could not decode.",
		DocURL:   "https://weft-ui.dev/docs/errors/E040",
	},
	"E041": {
		Category:   CategoryProtocol,
		Message:    "Attribute not observed",
		Detail:     "The client sent a change for an attribute the element does not declare in its observed list.",
		Suggestion: "Add the attribute to the observed list passed to Define.",
		DocURL:     "https://weft-ui.dev/docs/errors/E041",
	},

	// ============================================
	// Config Errors (E060-E079)
	// ============================================

	"E060": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Detail:     "weft.json could not be parsed or contains invalid values.",
		Suggestion: "Run 'weft serve' from a directory containing a valid weft.json, or delete the file to use defaults.",
		DocURL:     "https://weft-ui.dev/docs/errors/E060",
	},
}
