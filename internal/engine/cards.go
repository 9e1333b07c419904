package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
)

var (
	ErrNotCard        = errors.New("element is not an AAC card")
	ErrNotPlaceholder = errors.New("card has no placeholder to replace")
)

// UploadCardImage replaces a placeholder card's symbol with an uploaded
// image and clears the placeholder flag, as one undo step.
func (e *Engine) UploadCardImage(id, url string) (document.Element, error) {
	el, err := e.card(id)
	if err != nil {
		return document.Element{}, err
	}
	if !el.AAC().IsPlaceholder {
		return document.Element{}, fmt.Errorf("%w: %s", ErrNotPlaceholder, id)
	}
	if !asset.IsImageRef(url) {
		return document.Element{}, fmt.Errorf("%w: %q", asset.ErrNotImageRef, url)
	}

	out, err := e.UpdateElement(id, document.Patch{Metadata: &document.MetadataPatch{
		AACData: &document.AACDataPatch{
			Emoji:         &url,
			IsPlaceholder: document.Ptr(false),
		},
	}})
	if err != nil {
		return document.Element{}, err
	}
	slog.Debug("card image uploaded", "element", id)
	return out, nil
}

// CommitCardLabel sets the label typed into a full card in edit mode.
func (e *Engine) CommitCardLabel(id, label string) (document.Element, error) {
	el, err := e.card(id)
	if err != nil {
		return document.Element{}, err
	}
	if el.Variant() != document.VariantAACCard {
		return document.Element{}, fmt.Errorf("%w: %s has no editable label", ErrNotCard, id)
	}
	if el.AAC().Label == label {
		return el, nil
	}
	return e.UpdateElement(id, document.Patch{Metadata: &document.MetadataPatch{
		AACData: &document.AACDataPatch{Label: &label},
	}})
}

func (e *Engine) card(id string) (document.Element, error) {
	pg, err := e.requirePage()
	if err != nil {
		return document.Element{}, err
	}
	el, ok := pg.Element(id)
	if !ok {
		return document.Element{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	v := el.Variant()
	if (v != document.VariantAACCard && v != document.VariantAACSentenceItem) || el.AAC() == nil {
		return document.Element{}, fmt.Errorf("%w: %s", ErrNotCard, id)
	}
	return el, nil
}
