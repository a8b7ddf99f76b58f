package roster

import (
	_ "embed"
)

//go:embed roster.yaml
var defaultRoster []byte

// LoadDefault parses the roster compiled into the binary. Used when no
// roster file is configured.
func LoadDefault() (*File, error) {
	return parse(defaultRoster)
}
