// Package snapshot wraps a types.Stater's raw save-state bytes in brotli
// compression, the same way the teacher compresses frame payloads before
// they leave the process.
package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/waedt/gbvideo/internal/types"
)

// Marshal serializes s through a fresh types.State and brotli-compresses
// the result.
func Marshal(s types.Stater) ([]byte, error) {
	state := types.NewState()
	s.Save(state)

	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(state.Bytes()); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decompresses data and restores it into s via Load.
func Unmarshal(s types.Stater, data []byte) error {
	r := brotli.NewReader(bytes.NewReader(data))
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	s.Load(types.StateFromBytes(raw))
	return nil
}
