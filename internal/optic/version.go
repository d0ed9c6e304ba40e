package optic

// Version constants for the bench model and the tool.
const (
	// SchemaVersion is the bench definition schema version.
	SchemaVersion = "1"

	// ToolVersion is the lightpath version.
	ToolVersion = "0.1.0"
)
