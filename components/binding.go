package components

import "github.com/kolloid-cable/drift/content"

// Binding ties a particle to the item it represents.
// Filler particles carry a nil Item and are not interactive.
type Binding struct {
	Item *content.Item `inspect:"skip"`
}

// Bound reports whether the particle represents an item.
func (b Binding) Bound() bool {
	return b.Item != nil
}
