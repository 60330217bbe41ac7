// Package grouping assembles ranked candidates into the sectioned row list
// the launcher renders, and keeps keyboard selection on selectable rows.
//
// Two assembly paths exist. The static Assemble function groups a
// pre-filtered, pre-sorted index list under section headers and backs the
// contextual-actions dialog. The Assembler type builds the main launcher
// views: Grouped produces the browse list (SUGGESTED from usage history,
// then one section per script kit in first-appearance order, then COMMANDS
// and APPS, each sorted by display name), and Search produces the flat
// query-ranked list with a frecency boost folded into match scores.
//
// Every Item row carries an index into the flat results slice returned
// alongside the rows; header rows are labels only. Coerce remaps a desired
// selection index onto the nearest Item row so arrow-key navigation can
// never land on a header.
package grouping
