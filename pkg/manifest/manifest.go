// pkg/manifest/manifest.go
package manifest

import (
	"fmt"
)

// Config is the root of a function manifest (manifest.toml).
type Config struct {
	Server    Server     `toml:"server"`
	Functions []Function `toml:"function"`
}

type Server struct {
	Listen         string `toml:"listen"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms"`
}

// Validate normalizes every function entry and rejects duplicate
// method+path bindings.
func (c *Config) Validate() error {
	seen := make(map[string]string, len(c.Functions))
	for i := range c.Functions {
		f := &c.Functions[i]
		if err := f.normalize(); err != nil {
			return fmt.Errorf("function[%d]: %w", i, err)
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("function[%d] %q: %w", i, f.Name, err)
		}
		key := f.Method + " " + f.Path
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("function[%d] %q: %s already bound to %q", i, f.Name, key, prev)
		}
		seen[key] = f.Name
	}
	return nil
}
