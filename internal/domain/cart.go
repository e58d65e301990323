package domain

// DefaultSizeLabel is used in the merge key when an item has no size.
const DefaultSizeLabel = "default"

// LineItem represents a single line in the cart: one unique (product, size)
// combination and its accumulated quantity. The JSON field names match the
// snapshot format the storefront persists.
type LineItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// AddCandidate holds the parameters of an addition request before it is
// folded into the line collection.
type AddCandidate struct {
	ProductID string
	Name      string
	Size      string
	UnitPrice int64
	Quantity  int
}

// Cart is the aggregate root: an ordered sequence of line items, keyed
// uniquely by line ID.
type Cart struct {
	Lines []LineItem `json:"lines"`
}

// LineKey computes the deterministic merge key for a (product, size) pair.
func LineKey(productID, size string) string {
	if size == "" {
		size = DefaultSizeLabel
	}
	return productID + ":" + size
}

// TotalItems returns the sum of all line quantities.
func (c *Cart) TotalItems() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// TotalAmount returns the sum of unit price * quantity over all lines,
// in minor currency units.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// FindLineIndex returns the index of the line with the given ID, or -1.
func (c *Cart) FindLineIndex(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// ResolveAdd folds a candidate addition into the given line collection and
// returns the next collection together with the resulting quantity of the
// affected line. If a line with the candidate's merge key exists, only its
// quantity grows; name, size, and unit price keep their first-written values.
// Otherwise a new line is appended, preserving insertion order. The input
// slice is never mutated.
func ResolveAdd(lines []LineItem, candidate AddCandidate) ([]LineItem, int) {
	key := LineKey(candidate.ProductID, candidate.Size)

	next := make([]LineItem, len(lines))
	copy(next, lines)

	for i := range next {
		if next[i].ID == key {
			next[i].Quantity += candidate.Quantity
			return next, next[i].Quantity
		}
	}

	next = append(next, LineItem{
		ID:        key,
		ProductID: candidate.ProductID,
		Name:      candidate.Name,
		Size:      candidate.Size,
		UnitPrice: candidate.UnitPrice,
		Quantity:  candidate.Quantity,
	})
	return next, candidate.Quantity
}

// SanitizeLines drops malformed lines from an externally sourced collection:
// lines with a non-positive quantity, a negative price, or a duplicate ID.
// Order of the surviving lines is preserved. Missing IDs are recomputed from
// the product and size fields.
func SanitizeLines(lines []LineItem) []LineItem {
	seen := make(map[string]struct{}, len(lines))
	clean := make([]LineItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 || line.UnitPrice < 0 || line.ProductID == "" {
			continue
		}
		if line.ID == "" {
			line.ID = LineKey(line.ProductID, line.Size)
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		clean = append(clean, line)
	}

	return clean
}
