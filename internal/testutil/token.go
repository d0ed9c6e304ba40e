package testutil

// FixedContextGenerator returns the same context token every time.
//
// Registries built from the same bench with the same generator produce
// byte-identical events, dumps and journal rows, which golden files rely on.
//
// Thread-safety: FixedContextGenerator is stateless and safe for concurrent use.
type FixedContextGenerator struct {
	token string
}

// DefaultContext is the token used when none is configured.
const DefaultContext = "test-context-default"

// NewFixedContextGenerator creates a new fixed context token generator.
//
// The token is typically set in the scenario YAML:
//
//	context: "test-context-00000000-0000-0000-0000-000000000001"
//
// If token is empty, Generate() returns DefaultContext.
func NewFixedContextGenerator(token string) *FixedContextGenerator {
	if token == "" {
		token = DefaultContext
	}
	return &FixedContextGenerator{token: token}
}

// Generate returns the fixed context token.
//
// Implements network.TokenGenerator.
func (g *FixedContextGenerator) Generate() string {
	return g.token
}
