package document

// Variant is the single render behavior an element maps to.
type Variant int

const (
	variantUnset Variant = iota
	VariantText
	VariantAACCard
	VariantAACSentenceItem
	VariantEmotionCard
	VariantImageShape
	VariantLineArrow
)

// Variants lists every behavior in dispatch priority order.
var Variants = []Variant{
	VariantText,
	VariantAACCard,
	VariantAACSentenceItem,
	VariantEmotionCard,
	VariantImageShape,
	VariantLineArrow,
}

func (v Variant) String() string {
	switch v {
	case VariantText:
		return "text"
	case VariantAACCard:
		return "aacCard"
	case VariantAACSentenceItem:
		return "aacSentenceItem"
	case VariantEmotionCard:
		return "emotionCard"
	case VariantImageShape:
		return "imageShape"
	case VariantLineArrow:
		return "lineArrow"
	default:
		return "unset"
	}
}

// Compact reports whether an AAC card uses the sentence-strip layout.
func (v Variant) Compact() bool {
	return v == VariantAACSentenceItem
}

// Classify selects the behavior for an element. First match wins:
// text; card flagged AAC (sentence item before full card); card flagged
// emotion; image, shape, circle or unflagged card; line or arrow.
// Unknown kinds render as shapes.
func Classify(e Element) Variant {
	switch e.Kind {
	case KindText:
		return VariantText
	case KindLine, KindArrow:
		return VariantLineArrow
	case KindCard:
		if m := e.Metadata; m != nil {
			if m.IsAACSentenceItem {
				return VariantAACSentenceItem
			}
			if m.IsAACCard {
				return VariantAACCard
			}
			if m.IsEmotionCard {
				return VariantEmotionCard
			}
		}
		return VariantImageShape
	default:
		return VariantImageShape
	}
}

// Variant returns the cached behavior tag, classifying on first use.
func (e Element) Variant() Variant {
	if e.variant != variantUnset {
		return e.variant
	}
	return Classify(e)
}

// Normalize refreshes the cached behavior tag after direct field edits.
func (e *Element) Normalize() {
	e.variant = Classify(*e)
}
