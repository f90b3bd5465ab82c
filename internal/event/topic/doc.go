// Package topic names notifications and matches them against subscription
// patterns.
//
// A pattern segment "*" stands for one segment and "**" for any number,
// including none:
//
//	page.section.*   page.section.selected, page.section.scroll
//	page.**          every page notification
//	*.changed        config.changed
package topic
