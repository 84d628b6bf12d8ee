// Package server holds the configuration of the magsubd server process.
package server

// ServerConfig is the on-disk configuration of magsubd.
type ServerConfig struct {
	// ServerPort is the TCP port the API listens on.
	ServerPort string `yaml:"port"`

	// Checklist is the path of the ENA checklist XML the server
	// builds its field schema from. Optional when FieldSpec is set.
	Checklist string `yaml:"checklist"`

	// FieldSpec is the path of the field specification CSV.
	// Optional when Checklist is set.
	FieldSpec string `yaml:"fieldspec"`

	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `yaml:"loglevel"`
}
