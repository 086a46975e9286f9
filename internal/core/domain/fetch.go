package domain

// FetchTicket identifies one in-flight page-content request.
// Results are matched against the session's current page on arrival.
type FetchTicket struct {
	// PageIndex is the page the request was issued for.
	PageIndex int

	// Seq increases with every ticket a session issues.
	Seq uint64

	// Refetch marks an explicit re-fetch, which may replace an already
	// populated page.
	Refetch bool
}

// FetchResult is the outcome of a page-content request.
type FetchResult struct {
	Ticket FetchTicket
	Blocks []Block
	Err    error
}
