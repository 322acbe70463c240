package storage

import (
	"fmt"
	"slices"
)

// DefaultDisk is the name used for the default disk registration.
const DefaultDisk = "default"

// Disks is a named registry of storage backends. Upload endpoints select
// a disk by name; an empty name resolves to the default disk. The
// registry is populated at boot and read-only afterwards, so no locking
// is needed.
type Disks struct {
	disks map[string]Storage
	def   string
}

// NewDisks creates an empty disk registry.
func NewDisks() *Disks {
	return &Disks{disks: make(map[string]Storage)}
}

// Register adds a disk under the given name. The first registered disk
// becomes the default; registering under DefaultDisk always takes the
// default slot. Registering the same name twice replaces the previous
// disk.
func (d *Disks) Register(name string, s Storage) {
	if name == "" || s == nil {
		return
	}
	d.disks[name] = s
	if d.def == "" || name == DefaultDisk {
		d.def = name
	}
}

// SetDefault changes which disk an empty lookup resolves to.
func (d *Disks) SetDefault(name string) error {
	if _, ok := d.disks[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDisk, name)
	}
	d.def = name
	return nil
}

// Get returns the disk registered under name. An empty name returns the
// default disk. Returns ErrUnknownDisk when the name is not registered,
// or ErrNotConfigured when the registry is empty.
func (d *Disks) Get(name string) (Storage, error) {
	if len(d.disks) == 0 {
		return nil, ErrNotConfigured
	}
	if name == "" {
		name = d.def
	}
	s, ok := d.disks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisk, name)
	}
	return s, nil
}

// Default returns the default disk.
func (d *Disks) Default() (Storage, error) {
	return d.Get("")
}

// Names returns the registered disk names in sorted order.
func (d *Disks) Names() []string {
	names := make([]string, 0, len(d.disks))
	for name := range d.disks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered disks.
func (d *Disks) Len() int {
	return len(d.disks)
}
