// Package backend reads a document's extraction output from the extraction
// backend's HTTP API.
//
// Endpoints:
//
//	GET /pages_count                 {"pages": N}
//	GET /bounding_boxes/{n}          JSON array of blocks of page n
//	GET /page_image/{n}              rendered page n
//	GET /annotated_page_image/{n}    rendered page n with boxes drawn
//
// Transient failures (connection errors, 429 and 5xx responses) are retried
// with backoff.
package backend
