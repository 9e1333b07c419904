//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/kimahnho/worksheet/editor-go/internal/richtext"
)

// jsTextHost runs color and bold through the frontend's execCommand hook,
// which applies the browser's native command to the live region and
// returns the resulting markup. Without a hook the inline styling is used.
type jsTextHost struct {
	fallback richtext.InlineHost
}

func (h jsTextHost) ExecCommand(d *richtext.Doc, r richtext.Range, command, value string) error {
	fn := api.Get("execCommand")
	if fn.Type() != js.TypeFunction {
		return h.fallback.ExecCommand(d, r, command, value)
	}
	out := fn.Invoke(command, value, r.Start, r.End, d.HTML())
	if out.Type() != js.TypeString {
		return fmt.Errorf("execCommand %s: host returned %s", command, out.Type())
	}
	return d.Replace(out.String())
}
