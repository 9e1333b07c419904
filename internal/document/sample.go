package document

// NewSampleProject builds a demo worksheet with one element of every
// render behavior.
func NewSampleProject(projectID string) *Project {
	p := NewProject(projectID, "Feelings worksheet", PageDefaults{})
	pg := p.FirstPage()

	title := NewElement(KindText)
	title.X, title.Y, title.Width, title.Height = 60, 48, 674, 56
	title.FontSize = 32
	title.FontWeight = "bold"
	title.TextAlign = "center"
	title.Content = "How do you feel today?"
	title.RichTextHTML = `<span style="font-size: 32px">How do you feel today?</span>`
	pg.AddElement(title)

	emotion := NewElement(KindCard)
	emotion.X, emotion.Y, emotion.Width, emotion.Height = 60, 140, 180, 220
	emotion.BackgroundColor = "#fff7ed"
	emotion.BorderRadius = 16
	emotion.Metadata = &Metadata{
		IsEmotionCard: true,
		EmotionData:   &EmotionData{Label: "Happy", Emotion: "happy"},
	}
	pg.AddElement(emotion)

	for i, label := range []string{"I", "want", "play"} {
		glyph := []string{"🙋", "👐", "⚽"}[i]
		card := NewElement(KindCard)
		card.X, card.Y, card.Width, card.Height = 280+float64(i)*130, 140, 120, 140
		card.BackgroundColor = "#ffffff"
		card.BorderColor = "#94a3b8"
		card.BorderWidth = 2
		card.BorderRadius = 12
		card.Metadata = &Metadata{
			IsAACCard: true,
			AACData: &AACData{
				Label:         label,
				Emoji:         glyph,
				LabelPosition: LabelBelow,
				SymbolScale:   1,
				FontSize:      18,
			},
		}
		pg.AddElement(card)
	}

	strip := NewElement(KindCard)
	strip.X, strip.Y, strip.Width, strip.Height = 280, 300, 80, 80
	strip.Metadata = &Metadata{
		IsAACSentenceItem: true,
		AACData:           &AACData{Label: "", Emoji: "", IsPlaceholder: true, LabelPosition: LabelAbove},
	}
	pg.AddElement(strip)

	photo := NewElement(KindImage)
	photo.X, photo.Y, photo.Width, photo.Height = 60, 420, 320, 200
	photo.BackgroundScale = 150
	photo.BackgroundPosition = &Position{X: 0.5, Y: 0.3}
	pg.AddElement(photo)

	circle := NewElement(KindCircle)
	circle.X, circle.Y, circle.Width, circle.Height = 440, 440, 120, 120
	circle.BackgroundColor = "#bae6fd"
	pg.AddElement(circle)

	line := NewElement(KindLine)
	line.X, line.Y, line.Width = 60, 680, 674
	line.BorderStyle = BorderDashed
	pg.AddElement(line)

	arrow := NewElement(KindArrow)
	arrow.X, arrow.Y, arrow.Width = 400, 760, 200
	arrow.Rotation = 30
	pg.AddElement(arrow)

	hint := NewElement(KindText)
	hint.X, hint.Y, hint.Width, hint.Height = 60, 1040, 674, 32
	hint.Content = "Draw a line to the face that matches your feeling."
	hint.Color = "#94a3b8"
	hint.IsPassThrough = true
	pg.AddElement(hint)

	return p
}
