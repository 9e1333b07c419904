package render

import (
	"math"
	"strconv"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
	"github.com/kimahnho/worksheet/editor-go/internal/richtext"
)

const (
	defaultCardFontSize    = 16.0
	compactCardFontSize    = 12.0
	defaultStrokeWidth     = 2.0
	defaultStrokeColor     = "#000000"
	glyphSizeOfShorterSide = 0.5
)

// Dispatch compiles one element into its render node. The behavior is
// the element's cached variant; the selection overlay is added on top of
// any behavior while the element is selected and not being edited.
func Dispatch(el document.Element, st State, env Env) Node {
	box := el.Box()
	v := el.Variant()
	n := Node{
		ElementID:   el.ID,
		DOMID:       DOMPrefix + el.ID,
		Kind:        el.Kind,
		Behavior:    v.String(),
		Transform:   box.Matrix(),
		CSS:         box.Matrix().CSS(),
		Box:         box,
		ZIndex:      el.ZIndex,
		Opacity:     el.Opacity,
		PassThrough: el.IsPassThrough,
	}

	switch v {
	case document.VariantText:
		n.Text = textView(el, st)
	case document.VariantAACCard, document.VariantAACSentenceItem:
		n.Card = cardView(el, v.Compact(), st)
	case document.VariantEmotionCard:
		n.Emotion = emotionView(el)
	case document.VariantLineArrow:
		n.Line = lineView(el)
	default:
		if url := ImageURL(el); st.Editing && url != "" {
			n.CropEditor = cropEditorView(el, url, env)
		} else {
			n.Image = imageView(el, url, env)
		}
	}

	if st.Selected && !st.Editing {
		n.Overlay = NewOverlay(box)
	}
	return n
}

func textView(el document.Element, st State) *TextView {
	tv := &TextView{
		Editing: st.Editing,
		Style: TextStyle{
			FontFamily: el.FontFamily,
			FontSize:   el.FontSize,
			FontWeight: el.FontWeight,
			Color:      el.Color,
			TextAlign:  el.TextAlign,
		},
	}
	switch {
	case st.Editing && el.RichTextHTML == "":
		tv.HTML = richtext.PlainTextToHTML(el.Content)
	case el.RichTextHTML != "":
		tv.HTML = el.RichTextHTML
	case el.Content != "":
		tv.Plain = el.Content
	default:
		tv.Plain = TextPlaceholder
		tv.Placeholder = true
	}
	return tv
}

// GlyphSize is the font size of a literal card glyph: half the shorter
// side, times the card's symbol scale.
func GlyphSize(w, h, symbolScale float64) float64 {
	if symbolScale <= 0 {
		symbolScale = 1
	}
	return math.Min(w, h) * glyphSizeOfShorterSide * symbolScale
}

func cardView(el document.Element, compact bool, st State) *CardView {
	aac := el.AAC()
	if aac == nil {
		aac = &document.AACData{}
	}
	cv := &CardView{
		Compact:     compact,
		Label:       aac.Label,
		GlyphSize:   GlyphSize(el.Width, el.Height, aac.SymbolScale),
		Placeholder: aac.IsPlaceholder,
		Uploadable:  aac.IsPlaceholder,
		Filled:      aac.IsFilled,
	}
	if asset.IsImageRef(aac.Emoji) {
		cv.ImageURL = aac.Emoji
	} else {
		cv.Glyph = aac.Emoji
	}

	if compact {
		cv.LabelPosition = document.LabelAbove
		cv.Style = TextStyle{FontSize: compactCardFontSize, Color: aac.Color}
		cv.Frame = FrameStyle{BackgroundColor: el.BackgroundColor, BorderRadius: radius(el)}
		return cv
	}

	cv.LabelEditable = st.Editing
	cv.LabelPosition = aac.LabelPosition
	if cv.LabelPosition == "" {
		cv.LabelPosition = document.LabelBelow
	}
	cv.Style = TextStyle{
		FontSize:   aac.FontSize,
		FontWeight: aac.FontWeight,
		Color:      aac.Color,
		TextAlign:  "center",
	}
	if cv.Style.FontSize <= 0 {
		cv.Style.FontSize = defaultCardFontSize
	}
	cv.Frame = frameStyle(el)
	return cv
}

func emotionView(el document.Element) *EmotionView {
	ev := &EmotionView{Frame: frameStyle(el)}
	if el.Metadata != nil && el.Metadata.EmotionData != nil {
		em := el.Metadata.EmotionData
		ev.Label = em.Label
		ev.Emotion = em.Emotion
		if asset.IsImageRef(em.ImageURL) {
			ev.ImageURL = em.ImageURL
		}
	}
	return ev
}

// ImageURL is the element's image reference, or "" when content is not
// one.
func ImageURL(el document.Element) string {
	if asset.IsImageRef(el.Content) {
		return el.Content
	}
	return ""
}

func imageView(el document.Element, url string, env Env) *ImageView {
	iv := &ImageView{URL: url, Frame: frameStyle(el)}
	if url == "" {
		iv.Placeholder = true
		return iv
	}
	size, status := env.image(url)
	if status == ImageFailed {
		iv.Placeholder = true
		iv.Broken = true
		return iv
	}
	css := geometry.BackgroundCSS(el.Width, el.Height, el.Crop(), size.Aspect())
	iv.Background = &css
	return iv
}

func cropEditorView(el document.Element, url string, env Env) *CropEditorView {
	size, status := env.image(url)
	aspect := size.Aspect()
	crop := el.Crop()
	l := geometry.Display(el.Width, el.Height, crop, aspect)

	corners := map[geometry.Handle]geometry.Point{
		geometry.HandleNW: {X: l.DisplayX, Y: l.DisplayY},
		geometry.HandleNE: {X: l.DisplayX + l.ImageWidth, Y: l.DisplayY},
		geometry.HandleSE: {X: l.DisplayX + l.ImageWidth, Y: l.DisplayY + l.ImageHeight},
		geometry.HandleSW: {X: l.DisplayX, Y: l.DisplayY + l.ImageHeight},
	}
	handles := make([]HandleView, 0, len(geometry.CornerHandles))
	for _, h := range geometry.CornerHandles {
		handles = append(handles, HandleView{Handle: h, Point: corners[h], Cursor: h.Cursor(el.Rotation)})
	}

	return &CropEditorView{
		URL:         url,
		Layout:      l,
		AspectKnown: status == ImageLoaded && aspect > 0,
		Handles:     handles,
		Background:  geometry.BackgroundCSS(el.Width, el.Height, crop, aspect),
	}
}

func lineView(el document.Element) *LineView {
	lv := &LineView{
		X1:          0,
		Y1:          el.Height / 2,
		X2:          el.Width,
		Y2:          el.Height / 2,
		Stroke:      el.BorderColor,
		StrokeWidth: el.BorderWidth,
	}
	if lv.Stroke == "" {
		lv.Stroke = defaultStrokeColor
	}
	if lv.StrokeWidth <= 0 {
		lv.StrokeWidth = defaultStrokeWidth
	}
	lv.DashArray = DashArray(el.BorderStyle, lv.StrokeWidth, el.BorderDashScale)
	if el.Kind == document.KindArrow && el.ArrowHeadType != document.ArrowHeadNone {
		lv.ArrowHead = el.ArrowHeadType
		if lv.ArrowHead == "" {
			lv.ArrowHead = document.ArrowHeadTriangle
		}
	}
	return lv
}

// DashArray is the SVG stroke-dasharray for a border style. Dash and gap
// lengths grow with the stroke width and the dash scale.
func DashArray(style document.BorderStyle, width, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	var dash, gap float64
	switch style {
	case document.BorderDashed:
		dash, gap = width*3*scale, width*2*scale
	case document.BorderDotted:
		dash, gap = width*scale, width*2*scale
	default:
		return ""
	}
	return formatPx(dash) + " " + formatPx(gap)
}

func frameStyle(el document.Element) FrameStyle {
	return FrameStyle{
		BackgroundColor: el.BackgroundColor,
		BorderColor:     el.BorderColor,
		BorderWidth:     el.BorderWidth,
		BorderStyle:     el.BorderStyle,
		BorderRadius:    radius(el),
	}
}

func radius(el document.Element) string {
	if el.Kind == document.KindCircle {
		return "50%"
	}
	return formatPx(el.BorderRadius) + "px"
}

func formatPx(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
