// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONStrict is the codec for platform-facing JSON: marshaling leaves
// unicode and "/" literal (no HTML escaping), unmarshaling rejects
// unknown fields and trailing content.
var JSONStrict Codec = jsonStrict{}

type jsonStrict struct{}

func (jsonStrict) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	// Encode appends a newline; callers add their own framing.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }
