package domain

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

type CartLine struct {
	ProductID string `json:"id"`
	Quantity  int64  `json:"quantity"`
}

// Clone returns a deep copy of the lines, never nil.
func (c Cart) Clone() []CartLine {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}
