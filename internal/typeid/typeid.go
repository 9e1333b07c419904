package typeid

import (
	"errors"
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixProject  = "proj"
	PrefixPage     = "page"
	PrefixElement  = "el"
	PrefixSnapshot = "snap"
	PrefixOp       = "op"
	PrefixAsset    = "asset"
)

var ErrInvalid = errors.New("invalid typeid")

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewProjectID() string  { return New(PrefixProject) }
func NewPageID() string     { return New(PrefixPage) }
func NewElementID() string  { return New(PrefixElement) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewOpID() string       { return New(PrefixOp) }
func NewAssetID() string    { return New(PrefixAsset) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalid, id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("%w: expected prefix %q but got %q in id %q", ErrInvalid, expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
