package mcp

import "github.com/nvandessel/vecsim/internal/session"

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// PushInput defines the input for the vector_push tool.
type PushInput struct {
	Value string `json:"value" jsonschema:"Value to push_back, validated against the declared element type"`
}

// TypeInput defines the input for the vector_type tool.
type TypeInput struct {
	Type string `json:"type" jsonschema:"Element type: int, double, char or string. Changing it empties the vector"`
}

// TextInput defines the input for the string_set tool.
type TextInput struct {
	Text string `json:"text" jsonschema:"New content of the string buffer"`
}

// ViewInput defines the input for the view_switch tool.
type ViewInput struct {
	View string `json:"view" jsonschema:"View to display: vector, string or comparison"`
}

// StateInput defines the input for the state tool.
type StateInput struct {
	Format string `json:"format,omitempty" jsonschema:"Rendering of the state: text, json, dot or markdown (default markdown)"`
}

// ActionOutput is returned by every mutating tool.
type ActionOutput struct {
	Action   string           `json:"action" jsonschema:"The action that was applied"`
	Latest   string           `json:"latest,omitempty" jsonschema:"Newest operation log entry of the affected simulator"`
	Snapshot session.Snapshot `json:"snapshot" jsonschema:"Full playground state after the action"`
}

// StateOutput defines the output for the state tool.
type StateOutput struct {
	Format   string           `json:"format" jsonschema:"Format of the rendered field"`
	Rendered string           `json:"rendered" jsonschema:"State rendered in the requested format"`
	Snapshot session.Snapshot `json:"snapshot" jsonschema:"Full playground state"`
}
