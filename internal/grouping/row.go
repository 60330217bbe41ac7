package grouping

// RowKind discriminates assembled list rows.
type RowKind int

// Row kinds.
const (
	// RowHeader is a non-selectable section label.
	RowHeader RowKind = iota

	// RowItem is a selectable row referencing the results slice.
	RowItem
)

// Row is one line of an assembled list.
type Row struct {
	// Kind tells headers from items.
	Kind RowKind

	// Label is the section label; empty for items.
	Label string

	// Index points into the results slice; zero for headers.
	Index int
}

// Style controls how section boundaries render.
type Style int

// Section styles.
const (
	// StyleHeaders emits one header row at each section boundary.
	StyleHeaders Style = iota

	// StyleSeparators suppresses header rows; the renderer draws a rule
	// between sections instead.
	StyleSeparators

	// StyleNone suppresses section decoration entirely.
	StyleNone
)

// Fixed section labels for the main launcher view. Kit sections use the
// upper-cased kit name.
const (
	SectionSuggested = "SUGGESTED"
	SectionCommands  = "COMMANDS"
	SectionApps      = "APPS"
)

// Assemble groups a filtered, pre-sorted candidate selection under section
// headers. sections holds the section label of every candidate by original
// index, empty for sectionless candidates; filtered holds candidate indices
// in display order. Item rows carry the position within filtered, which is
// the index into the caller's filtered snapshot.
//
// With StyleHeaders, a header row is emitted before any item whose section
// differs from the previously emitted item's section. Sectionless items
// never emit a header and do not reset the previous section. Other styles
// emit item rows only. Out-of-range filtered entries are skipped.
func Assemble(sections []string, filtered []int, style Style) []Row {
	if len(filtered) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(filtered))
	prev := ""
	for pos, idx := range filtered {
		if idx < 0 || idx >= len(sections) {
			continue
		}
		if style == StyleHeaders {
			if section := sections[idx]; section != "" && section != prev {
				rows = append(rows, Row{Kind: RowHeader, Label: section})
				prev = section
			}
		}
		rows = append(rows, Row{Kind: RowItem, Index: pos})
	}
	return rows
}
