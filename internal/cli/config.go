package cli

// Config holds the configuration for a parse run
type Config struct {
	// Definitions are parsed in order; "-" reads one definition from stdin
	Definitions []string

	// CatalogPath names a YAML catalog whose entries are parsed before
	// Definitions
	CatalogPath string

	// JSON switches the report to a machine-readable document on stdout
	JSON bool

	// Verbose adds the cause chain below each rejected definition
	Verbose bool
}
