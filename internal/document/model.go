package document

import (
	"encoding/json"

	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

type ElementKind string

const (
	KindText   ElementKind = "text"
	KindImage  ElementKind = "image"
	KindShape  ElementKind = "shape"
	KindCircle ElementKind = "circle"
	KindCard   ElementKind = "card"
	KindLine   ElementKind = "line"
	KindArrow  ElementKind = "arrow"
)

// Kinds lists every element kind.
var Kinds = []ElementKind{KindText, KindImage, KindShape, KindCircle, KindCard, KindLine, KindArrow}

type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

type ArrowHead string

const (
	ArrowHeadNone     ArrowHead = "none"
	ArrowHeadTriangle ArrowHead = "triangle"
	ArrowHeadCircle   ArrowHead = "circle"
	ArrowHeadSquare   ArrowHead = "square"
)

type LabelPosition string

const (
	LabelAbove LabelPosition = "above"
	LabelBelow LabelPosition = "below"
	LabelNone  LabelPosition = "none"
)

// Position is a normalized [0,1] alignment per axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AACData describes an AAC symbol card. Emoji is either a literal glyph
// or an image reference.
type AACData struct {
	Label         string        `json:"label"`
	Emoji         string        `json:"emoji"`
	IsFilled      bool          `json:"isFilled,omitempty"`
	IsPlaceholder bool          `json:"isPlaceholder,omitempty"`
	LabelPosition LabelPosition `json:"labelPosition,omitempty"`
	SymbolScale   float64       `json:"symbolScale,omitempty"`
	FontSize      float64       `json:"fontSize,omitempty"`
	FontWeight    string        `json:"fontWeight,omitempty"`
	Color         string        `json:"color,omitempty"`
}

type EmotionData struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
	Emotion  string `json:"emotion,omitempty"`
}

type Metadata struct {
	AACData           *AACData     `json:"aacData,omitempty"`
	IsAACCard         bool         `json:"isAACCard,omitempty"`
	IsAACSentenceItem bool         `json:"isAACSentenceItem,omitempty"`
	IsEmotionCard     bool         `json:"isEmotionCard,omitempty"`
	EmotionData       *EmotionData `json:"emotionData,omitempty"`
}

// Element is one visual object on a page.
//
// For image-like kinds Content holds the image reference; for text it is
// the plain-text projection of RichTextHTML.
type Element struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	ZIndex   int         `json:"zIndex"`

	BackgroundColor string      `json:"backgroundColor,omitempty"`
	BorderColor     string      `json:"borderColor,omitempty"`
	BorderWidth     float64     `json:"borderWidth,omitempty"`
	BorderStyle     BorderStyle `json:"borderStyle,omitempty"`
	BorderRadius    float64     `json:"borderRadius,omitempty"`
	Opacity         float64     `json:"opacity"`

	Content      string  `json:"content,omitempty"`
	RichTextHTML string  `json:"richTextHtml,omitempty"`
	FontFamily   string  `json:"fontFamily,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty"`
	FontWeight   string  `json:"fontWeight,omitempty"`
	Color        string  `json:"color,omitempty"`
	TextAlign    string  `json:"textAlign,omitempty"`

	BackgroundScale    float64   `json:"backgroundScale,omitempty"`
	BackgroundScaleX   float64   `json:"backgroundScaleX,omitempty"`
	BackgroundScaleY   float64   `json:"backgroundScaleY,omitempty"`
	BackgroundPosition *Position `json:"backgroundPosition,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	BorderDashScale float64   `json:"borderDashScale,omitempty"`
	ArrowHeadType   ArrowHead `json:"arrowHeadType,omitempty"`

	IsPassThrough bool `json:"isPassThrough,omitempty"`

	variant Variant
}

// NewElement returns an element of the given kind with default styling.
func NewElement(kind ElementKind) Element {
	e := Element{
		Kind:            kind,
		Width:           100,
		Height:          100,
		Opacity:         1,
		BorderStyle:     BorderSolid,
		BackgroundScale: geometry.DefaultCropScale,
	}
	switch kind {
	case KindText:
		e.Width, e.Height = 200, 40
		e.FontFamily = "Pretendard"
		e.FontSize = 16
		e.FontWeight = "normal"
		e.Color = "#000000"
		e.TextAlign = "left"
	case KindLine, KindArrow:
		e.Width, e.Height = 150, 4
		e.BorderColor = "#000000"
		e.BorderWidth = 2
		e.BorderDashScale = 1
		e.ArrowHeadType = ArrowHeadNone
		if kind == KindArrow {
			e.ArrowHeadType = ArrowHeadTriangle
		}
	case KindShape, KindCircle, KindImage, KindCard:
		e.BackgroundColor = "#e5e7eb"
	}
	e.variant = Classify(e)
	return e
}

// UnmarshalJSON fills defaults for missing optional fields and tags the
// element's render variant.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	p := plain{
		Opacity:         1,
		BorderStyle:     BorderSolid,
		BackgroundScale: geometry.DefaultCropScale,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Element(p)
	e.variant = Classify(*e)
	return nil
}

// Box returns the element frame for the geometry kernel.
func (e Element) Box() geometry.Box {
	return geometry.Box{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height, Rotation: e.Rotation}
}

// Crop returns the background-image state for the geometry kernel.
func (e Element) Crop() geometry.Crop {
	c := geometry.Crop{
		Scale:  e.BackgroundScale,
		ScaleX: e.BackgroundScaleX,
		ScaleY: e.BackgroundScaleY,
		PosX:   0.5,
		PosY:   0.5,
	}
	if e.BackgroundPosition != nil {
		c.PosX = e.BackgroundPosition.X
		c.PosY = e.BackgroundPosition.Y
	}
	return geometry.NormalizeCrop(c)
}

// IsImageLike reports whether the element renders through the image/shape
// behavior and can enter the crop editor.
func (e Element) IsImageLike() bool {
	return e.Variant() == VariantImageShape
}

// AAC returns the card's AAC data, or nil.
func (e Element) AAC() *AACData {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata.AACData
}

// Clone returns a copy that shares no nested objects with e.
func (e Element) Clone() Element {
	out := e
	if e.BackgroundPosition != nil {
		pos := *e.BackgroundPosition
		out.BackgroundPosition = &pos
	}
	out.Metadata = e.Metadata.clone()
	return out
}

func (m *Metadata) clone() *Metadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.AACData != nil {
		aac := *m.AACData
		out.AACData = &aac
	}
	if m.EmotionData != nil {
		em := *m.EmotionData
		out.EmotionData = &em
	}
	return &out
}
