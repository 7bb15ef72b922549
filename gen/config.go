package gen

// Config defines the code generation configuration for rowgen.
// Place this in a file named `config.go` in your model directory.
type Config struct {
	// OutPath overrides the output directory for generated files.
	// Relative paths resolve against the model directory.
	OutPath string

	// IncludeStructs specifies which structs to generate.
	// Supports string names or type instances: []any{"User", &Post{}}
	// If empty, all exported structs with mappable fields are generated.
	IncludeStructs []any

	// ExcludeStructs specifies which structs to skip.
	// Supports string names: []any{"BaseModel"}
	ExcludeStructs []any
}

// ConfigFileName is the convention filename for configuration.
const ConfigFileName = "config.go"
