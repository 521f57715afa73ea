// pkg/manifest/function.go
package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Function binds a registered function name to an HTTP route.
type Function struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	Method    string `toml:"method"`
	Signature string `toml:"signature"`
	Guard     Guard  `toml:"guard"`
	Policy    Policy `toml:"policy"`
}

type Guard struct {
	RequireAuth bool `toml:"require_auth"`
}

type Policy struct {
	TimeoutMS int `toml:"timeout_ms"`
}

// normalize path/method/signature
func (f *Function) normalize() error {
	if f.Path == "" {
		f.Path = "/"
	}
	if !strings.HasPrefix(f.Path, "/") {
		f.Path = "/" + f.Path
	}
	if f.Path != "/" {
		f.Path = path.Clean(f.Path)
	}
	f.Method = strings.ToUpper(strings.TrimSpace(f.Method))
	if f.Method == "" {
		f.Method = "POST"
	}
	f.Signature = strings.ToLower(strings.TrimSpace(f.Signature))
	return nil
}

// validate fields that are independent of global state. The signature
// is declarative only; resolution goes through the registry, which wins
// over whatever is declared here.
func (f *Function) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name is required")
	}
	switch f.Signature {
	case "", "http", "event", "cloudevent":
	default:
		return fmt.Errorf("unknown signature %q", f.Signature)
	}
	if f.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	return nil
}
