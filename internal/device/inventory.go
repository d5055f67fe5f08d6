package device

import "sync"

// Descriptor is one entry in the inventory: a kind plus the
// implementation-defined identifier the original's device_list entries
// carried (serial number, file path, network address).
type Descriptor struct {
	Kind Kind
	ID   string
}

// Inventory owns the list of available devices, replacing the
// original's static device_list vector on Receiver per DESIGN NOTES:
// "device_list static vector on Receiver -> owned by an Inventory
// service queried at startup." Real hardware enumeration (rtl-sdr,
// airspy, hackrf, sdrplay) is out of scope per spec.md §1; callers
// register FileDevice/NullDevice descriptors explicitly instead of
// the inventory scanning for hardware.
type Inventory struct {
	mu      sync.Mutex
	entries []Descriptor
}

// NewInventory returns an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// Register adds a descriptor to the inventory, returning its index.
func (inv *Inventory) Register(d Descriptor) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.entries = append(inv.entries, d)
	return len(inv.entries) - 1
}

// List returns a snapshot of every registered descriptor, in
// registration order.
func (inv *Inventory) List() []Descriptor {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]Descriptor, len(inv.entries))
	copy(out, inv.entries)
	return out
}

// ByKind filters the inventory to one device kind.
func (inv *Inventory) ByKind(k Kind) []Descriptor {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var out []Descriptor
	for _, d := range inv.entries {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}
