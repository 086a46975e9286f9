package domain

// Intent is a user edit against the active page, expressed as data.
// Driving adapters emit intents; the session applies them and returns
// the new page state.
type Intent interface {
	// IntentName returns a short name for logging.
	IntentName() string
}

// ReorderIntent moves the block at From to To.
// A negative To represents a cancelled drop.
type ReorderIntent struct {
	From int
	To   int
}

// IntentName implements Intent.
func (ReorderIntent) IntentName() string { return "reorder" }

// EditContentIntent replaces a block's content and, when Metadata is
// non-nil, its metadata.
type EditContentIntent struct {
	BlockID  string
	Content  string
	Metadata map[string]any
}

// IntentName implements Intent.
func (EditContentIntent) IntentName() string { return "edit_content" }

// DeleteBlockIntent removes a block.
type DeleteBlockIntent struct {
	BlockID string
}

// IntentName implements Intent.
func (DeleteBlockIntent) IntentName() string { return "delete_block" }

// DuplicateBlockIntent inserts a copy of a block immediately after it.
type DuplicateBlockIntent struct {
	BlockID string
}

// IntentName implements Intent.
func (DuplicateBlockIntent) IntentName() string { return "duplicate_block" }
