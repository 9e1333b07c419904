package render

import (
	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

// DOMPrefix prefixes element ids in rendered region identifiers so an
// exporter can map document elements to what is on screen.
const DOMPrefix = "element-"

// TextPlaceholder is shown for a text element with no content.
const TextPlaceholder = "Double-click to edit"

// State is the interaction mode an element is rendered in.
type State struct {
	Selected bool
	Editing  bool
}

// ImageStatus is what the host knows about an image reference.
type ImageStatus int

const (
	ImagePending ImageStatus = iota
	ImageLoaded
	ImageFailed
)

// Env supplies the renderer's read-only view of loaded assets.
type Env struct {
	// Image returns the natural size of a loaded image.
	Image func(url string) (asset.Size, ImageStatus)
}

func (e Env) image(url string) (asset.Size, ImageStatus) {
	if e.Image == nil {
		return asset.Size{}, ImagePending
	}
	return e.Image(url)
}

// Node is one element compiled for the host. Exactly one of the
// behavior payloads is set, matching Behavior.
type Node struct {
	ElementID   string               `json:"elementId"`
	DOMID       string               `json:"domId"`
	Kind        document.ElementKind `json:"kind"`
	Behavior    string               `json:"behavior"`
	Transform   geometry.Matrix2D    `json:"transform"`
	CSS         string               `json:"css"`
	Box         geometry.Box         `json:"box"`
	ZIndex      int                  `json:"zIndex"`
	Opacity     float64              `json:"opacity"`
	PassThrough bool                 `json:"passThrough,omitempty"`

	Text       *TextView       `json:"text,omitempty"`
	Card       *CardView       `json:"card,omitempty"`
	Emotion    *EmotionView    `json:"emotion,omitempty"`
	Image      *ImageView      `json:"image,omitempty"`
	CropEditor *CropEditorView `json:"cropEditor,omitempty"`
	Line       *LineView       `json:"line,omitempty"`

	Overlay *Overlay `json:"overlay,omitempty"`
}

type TextStyle struct {
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
}

// TextView renders markup when HTML is set, else Plain. With Editing set
// the host mounts the rich-text editor seeded with HTML.
type TextView struct {
	HTML        string    `json:"html,omitempty"`
	Plain       string    `json:"plain,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
	Editing     bool      `json:"editing,omitempty"`
	Style       TextStyle `json:"style"`
}

// CardView is an AAC symbol card. Either ImageURL or Glyph is set unless
// the card is an empty placeholder.
type CardView struct {
	Compact       bool                   `json:"compact,omitempty"`
	Label         string                 `json:"label"`
	LabelPosition document.LabelPosition `json:"labelPosition"`
	ImageURL      string                 `json:"imageUrl,omitempty"`
	Glyph         string                 `json:"glyph,omitempty"`
	GlyphSize     float64                `json:"glyphSize"`
	Placeholder   bool                   `json:"placeholder,omitempty"`
	Uploadable    bool                   `json:"uploadable,omitempty"`
	Filled        bool                   `json:"filled,omitempty"`
	LabelEditable bool                   `json:"labelEditable,omitempty"`
	Style         TextStyle              `json:"style"`
	Frame         FrameStyle             `json:"frame"`
}

type FrameStyle struct {
	BackgroundColor string               `json:"backgroundColor,omitempty"`
	BorderColor     string               `json:"borderColor,omitempty"`
	BorderWidth     float64              `json:"borderWidth,omitempty"`
	BorderStyle     document.BorderStyle `json:"borderStyle,omitempty"`
	BorderRadius    string               `json:"borderRadius,omitempty"`
}

type EmotionView struct {
	Label    string     `json:"label"`
	Emotion  string     `json:"emotion,omitempty"`
	ImageURL string     `json:"imageUrl,omitempty"`
	Frame    FrameStyle `json:"frame"`
}

// ImageView is the static image or shape presentation. Without a usable
// image it is a solid placeholder; URL is kept even when loading failed.
type ImageView struct {
	URL         string                  `json:"url,omitempty"`
	Placeholder bool                    `json:"placeholder,omitempty"`
	Broken      bool                    `json:"broken,omitempty"`
	Background  *geometry.CSSBackground `json:"background,omitempty"`
	Frame       FrameStyle              `json:"frame"`
}

// CropEditorView lays out the full image behind the frame with four
// corner scale grips. Points are in the element's local frame.
type CropEditorView struct {
	URL         string                 `json:"url"`
	Layout      geometry.Layout        `json:"layout"`
	AspectKnown bool                   `json:"aspectKnown"`
	Handles     []HandleView           `json:"handles"`
	Background  geometry.CSSBackground `json:"background"`
}

// LineView is a horizontal stroke across the local frame, centered
// vertically. ArrowHead is empty for plain lines.
type LineView struct {
	X1          float64            `json:"x1"`
	Y1          float64            `json:"y1"`
	X2          float64            `json:"x2"`
	Y2          float64            `json:"y2"`
	Stroke      string             `json:"stroke"`
	StrokeWidth float64            `json:"strokeWidth"`
	DashArray   string             `json:"dashArray,omitempty"`
	ArrowHead   document.ArrowHead `json:"arrowHead,omitempty"`
}

type HandleView struct {
	Handle geometry.Handle `json:"handle"`
	Point  geometry.Point  `json:"point"`
	Cursor string          `json:"cursor"`
}

// Overlay is the selection decoration: outline, resize grips, rotation
// grip and a dimension label. Points are in world space.
type Overlay struct {
	Corners  [4]geometry.Point `json:"corners"`
	Bounds   geometry.Rect     `json:"bounds"`
	Handles  []HandleView      `json:"handles"`
	Rotation geometry.Point    `json:"rotation"`
	Label    string            `json:"label"`
}
