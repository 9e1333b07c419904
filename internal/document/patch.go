package document

import "github.com/kimahnho/worksheet/editor-go/internal/geometry"

// Patch is a partial element update. Nil fields are left alone.
//
// Merge rules for nested objects are fixed here rather than left to
// callers: BackgroundPosition and Metadata.EmotionData are replaced whole,
// Metadata and Metadata.AACData merge field by field.
type Patch struct {
	Kind     *ElementKind `json:"type,omitempty"`
	X        *float64     `json:"x,omitempty"`
	Y        *float64     `json:"y,omitempty"`
	Width    *float64     `json:"width,omitempty"`
	Height   *float64     `json:"height,omitempty"`
	Rotation *float64     `json:"rotation,omitempty"`
	ZIndex   *int         `json:"zIndex,omitempty"`

	BackgroundColor *string      `json:"backgroundColor,omitempty"`
	BorderColor     *string      `json:"borderColor,omitempty"`
	BorderWidth     *float64     `json:"borderWidth,omitempty"`
	BorderStyle     *BorderStyle `json:"borderStyle,omitempty"`
	BorderRadius    *float64     `json:"borderRadius,omitempty"`
	Opacity         *float64     `json:"opacity,omitempty"`

	Content      *string  `json:"content,omitempty"`
	RichTextHTML *string  `json:"richTextHtml,omitempty"`
	FontFamily   *string  `json:"fontFamily,omitempty"`
	FontSize     *float64 `json:"fontSize,omitempty"`
	FontWeight   *string  `json:"fontWeight,omitempty"`
	Color        *string  `json:"color,omitempty"`
	TextAlign    *string  `json:"textAlign,omitempty"`

	BackgroundScale    *float64  `json:"backgroundScale,omitempty"`
	BackgroundScaleX   *float64  `json:"backgroundScaleX,omitempty"`
	BackgroundScaleY   *float64  `json:"backgroundScaleY,omitempty"`
	BackgroundPosition *Position `json:"backgroundPosition,omitempty"`

	Metadata *MetadataPatch `json:"metadata,omitempty"`

	BorderDashScale *float64   `json:"borderDashScale,omitempty"`
	ArrowHeadType   *ArrowHead `json:"arrowHeadType,omitempty"`
	IsPassThrough   *bool      `json:"isPassThrough,omitempty"`
}

type MetadataPatch struct {
	AACData           *AACDataPatch `json:"aacData,omitempty"`
	IsAACCard         *bool         `json:"isAACCard,omitempty"`
	IsAACSentenceItem *bool         `json:"isAACSentenceItem,omitempty"`
	IsEmotionCard     *bool         `json:"isEmotionCard,omitempty"`
	EmotionData       *EmotionData  `json:"emotionData,omitempty"`
}

type AACDataPatch struct {
	Label         *string        `json:"label,omitempty"`
	Emoji         *string        `json:"emoji,omitempty"`
	IsFilled      *bool          `json:"isFilled,omitempty"`
	IsPlaceholder *bool          `json:"isPlaceholder,omitempty"`
	LabelPosition *LabelPosition `json:"labelPosition,omitempty"`
	SymbolScale   *float64       `json:"symbolScale,omitempty"`
	FontSize      *float64       `json:"fontSize,omitempty"`
	FontWeight    *string        `json:"fontWeight,omitempty"`
	Color         *string        `json:"color,omitempty"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// BoxPatch sets the frame fields from a kernel result.
func BoxPatch(b geometry.Box) Patch {
	return Patch{
		X:        Ptr(b.X),
		Y:        Ptr(b.Y),
		Width:    Ptr(b.Width),
		Height:   Ptr(b.Height),
		Rotation: Ptr(b.Rotation),
	}
}

// CropPatch sets the background-image fields from a kernel result.
func CropPatch(c geometry.Crop) Patch {
	p := Patch{
		BackgroundScale:    Ptr(c.Scale),
		BackgroundPosition: &Position{X: c.PosX, Y: c.PosY},
	}
	if c.PerAxis() {
		p.BackgroundScaleX = Ptr(c.ScaleX)
		p.BackgroundScaleY = Ptr(c.ScaleY)
	}
	return p
}

// Apply returns e with the patch merged in. Nested objects are copied
// before they are modified, so earlier snapshots of e stay intact.
func (p Patch) Apply(e Element) Element {
	setIf(&e.Kind, p.Kind)
	setIf(&e.X, p.X)
	setIf(&e.Y, p.Y)
	setIf(&e.Width, p.Width)
	setIf(&e.Height, p.Height)
	setIf(&e.Rotation, p.Rotation)
	setIf(&e.ZIndex, p.ZIndex)

	setIf(&e.BackgroundColor, p.BackgroundColor)
	setIf(&e.BorderColor, p.BorderColor)
	setIf(&e.BorderWidth, p.BorderWidth)
	setIf(&e.BorderStyle, p.BorderStyle)
	setIf(&e.BorderRadius, p.BorderRadius)
	setIf(&e.Opacity, p.Opacity)

	setIf(&e.Content, p.Content)
	setIf(&e.RichTextHTML, p.RichTextHTML)
	setIf(&e.FontFamily, p.FontFamily)
	setIf(&e.FontSize, p.FontSize)
	setIf(&e.FontWeight, p.FontWeight)
	setIf(&e.Color, p.Color)
	setIf(&e.TextAlign, p.TextAlign)

	setIf(&e.BackgroundScale, p.BackgroundScale)
	setIf(&e.BackgroundScaleX, p.BackgroundScaleX)
	setIf(&e.BackgroundScaleY, p.BackgroundScaleY)
	if p.BackgroundPosition != nil {
		pos := *p.BackgroundPosition
		e.BackgroundPosition = &pos
	}

	if p.Metadata != nil {
		m := e.Metadata.clone()
		if m == nil {
			m = &Metadata{}
		}
		p.Metadata.apply(m)
		e.Metadata = m
	}

	setIf(&e.BorderDashScale, p.BorderDashScale)
	setIf(&e.ArrowHeadType, p.ArrowHeadType)
	setIf(&e.IsPassThrough, p.IsPassThrough)

	e.Normalize()
	return e
}

func (mp *MetadataPatch) apply(m *Metadata) {
	setIf(&m.IsAACCard, mp.IsAACCard)
	setIf(&m.IsAACSentenceItem, mp.IsAACSentenceItem)
	setIf(&m.IsEmotionCard, mp.IsEmotionCard)
	if mp.EmotionData != nil {
		em := *mp.EmotionData
		m.EmotionData = &em
	}
	if ap := mp.AACData; ap != nil {
		if m.AACData == nil {
			m.AACData = &AACData{}
		}
		a := m.AACData
		setIf(&a.Label, ap.Label)
		setIf(&a.Emoji, ap.Emoji)
		setIf(&a.IsFilled, ap.IsFilled)
		setIf(&a.IsPlaceholder, ap.IsPlaceholder)
		setIf(&a.LabelPosition, ap.LabelPosition)
		setIf(&a.SymbolScale, ap.SymbolScale)
		setIf(&a.FontSize, ap.FontSize)
		setIf(&a.FontWeight, ap.FontWeight)
		setIf(&a.Color, ap.Color)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
