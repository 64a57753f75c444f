package preview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme maps highlight tags to terminal styles.
type Theme map[string]tcell.Style

// Style returns the style for tag, or the default style.
func (t Theme) Style(tag string) tcell.Style {
	if st, ok := t[tag]; ok {
		return st
	}
	return tcell.StyleDefault
}

// DefaultTheme returns styles for the built-in rule table's highlights.
func DefaultTheme() Theme {
	fg := func(c tcell.Color) tcell.Style { return tcell.StyleDefault.Foreground(c) }
	levels := []tcell.Color{
		tcell.ColorFuchsia, tcell.ColorAqua, tcell.ColorYellow,
		tcell.ColorLime, tcell.ColorBlue, tcell.ColorOrange,
	}

	t := Theme{
		"NeorgTodoItemDoneMark":         fg(tcell.ColorGreen),
		"NeorgTodoItemPendingMark":      fg(tcell.ColorYellow),
		"NeorgTodoItemUndoneMark":       fg(tcell.ColorRed),
		"NeorgTodoItemUncertainMark":    fg(tcell.ColorOlive),
		"NeorgTodoItemOnHoldMark":       fg(tcell.ColorTeal),
		"NeorgTodoItemCancelledMark":    fg(tcell.ColorGray),
		"NeorgTodoItemRecurringMark":    fg(tcell.ColorAqua),
		"NeorgTodoItemUrgentMark":       fg(tcell.ColorRed).Bold(true),
		"NeorgMarker":                   fg(tcell.ColorPurple),
		"NeorgDefinition":               fg(tcell.ColorTeal),
		"NeorgFootnote":                 fg(tcell.ColorSilver),
		"NeorgWeakParagraphDelimiter":   fg(tcell.ColorGray),
		"NeorgStrongParagraphDelimiter": fg(tcell.ColorSilver),
		"NeorgHorizontalLine":           fg(tcell.ColorGray),
		"NeorgCodeBlock":                tcell.StyleDefault.Background(tcell.ColorNavy),
		"NeorgMarkupBold":               tcell.StyleDefault.Bold(true),
		"NeorgMarkupItalic":             tcell.StyleDefault.Italic(true),
		"NeorgMarkupUnderline":          tcell.StyleDefault.Underline(true),
		"NeorgMarkupStrikeThrough":      tcell.StyleDefault.StrikeThrough(true),
		"NeorgMarkupSpoiler":            tcell.StyleDefault.Reverse(true),
		"NeorgMarkupVerbatim":           fg(tcell.ColorSilver),
		"NeorgMarkupSuperscript":        fg(tcell.ColorAqua),
		"NeorgMarkupSubscript":          fg(tcell.ColorAqua),
	}
	for i, c := range levels {
		level := i + 1
		t[fmt.Sprintf("NeorgHeading%d", level)] = fg(c).Bold(true)
		t[fmt.Sprintf("NeorgQuote%d", level)] = fg(c)
		t[fmt.Sprintf("NeorgUnorderedList%d", level)] = fg(c)
		t[fmt.Sprintf("NeorgOrderedList%d", level)] = fg(c)
	}
	return t
}
