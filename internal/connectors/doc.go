// Package connectors holds the PageSource implementations that read layout
// extraction output: filesystem for a local output directory and backend for
// the extraction service's HTTP API.
//
// The CLI picks one at startup from source.dir or source.url.
package connectors
