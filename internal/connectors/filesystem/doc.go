// Package filesystem reads a document's extraction output from a local
// directory.
//
// The layout is the one the extraction backend writes:
//
//	<root>/pages_count.txt                       page count
//	<root>/uploaded.pdf                          source PDF (page count fallback)
//	<root>/boxes/boxes_{n}.json                  blocks of page n
//	<root>/page_images/page_{n}.png              rendered page n
//	<root>/annotated_images/annotated_page_{n}.png
//
// Page numbers in file names are zero-based.
package filesystem
