package bus

import (
	"errors"
	"fmt"
	"sort"
)

// OpenBus is what a read from an unmapped address returns.
const OpenBus = 0xFFFF

// ErrOverlap is returned when a new range collides with a mapped one.
var ErrOverlap = errors.New("bus: overlapping range")

// ReadFunc and WriteFunc receive the offset of the access within its range.
type (
	ReadFunc  func(offset uint32) uint16
	WriteFunc func(offset uint32, value uint16)
)

type region struct {
	name       string
	start, end uint32 // inclusive
	read       ReadFunc
	write      WriteFunc
}

// Bus decodes addresses into the handlers a board registered for them.
// Byte-wide boards use the low 8 bits of the data.
type Bus struct {
	regions  []region
	unmapped int
}

func New() *Bus {
	return &Bus{}
}

// Map registers [start, end]. Either handler may be nil for a write-only or
// read-only range.
func (b *Bus) Map(name string, start, end uint32, r ReadFunc, w WriteFunc) error {
	if end < start {
		return fmt.Errorf("bus: %s: end %#x before start %#x", name, end, start)
	}
	for _, rg := range b.regions {
		if start <= rg.end && rg.start <= end {
			return fmt.Errorf("%w: %s [%#x-%#x] and %s [%#x-%#x]", ErrOverlap, name, start, end, rg.name, rg.start, rg.end)
		}
	}
	b.regions = append(b.regions, region{name: name, start: start, end: end, read: r, write: w})
	sort.Slice(b.regions, func(i, j int) bool { return b.regions[i].start < b.regions[j].start })
	return nil
}

func (b *Bus) find(addr uint32) *region {
	i := sort.Search(len(b.regions), func(i int) bool { return b.regions[i].end >= addr })
	if i < len(b.regions) && b.regions[i].start <= addr {
		return &b.regions[i]
	}
	return nil
}

func (b *Bus) Read(addr uint32) uint16 {
	rg := b.find(addr)
	if rg == nil || rg.read == nil {
		b.unmapped++
		return OpenBus
	}
	return rg.read(addr - rg.start)
}

func (b *Bus) Write(addr uint32, value uint16) {
	rg := b.find(addr)
	if rg == nil || rg.write == nil {
		b.unmapped++
		return
	}
	rg.write(addr-rg.start, value)
}

// Unmapped counts accesses that hit no handler.
func (b *Bus) Unmapped() int { return b.unmapped }

// Name returns the name of the range holding addr, or "".
func (b *Bus) Name(addr uint32) string {
	if rg := b.find(addr); rg != nil {
		return rg.name
	}
	return ""
}

// Bytes maps byte RAM one byte per address.
func Bytes(mem []byte) (ReadFunc, WriteFunc) {
	return func(off uint32) uint16 {
			return uint16(mem[int(off)%len(mem)])
		}, func(off uint32, v uint16) {
			mem[int(off)%len(mem)] = byte(v)
		}
}

// Words maps word RAM at even byte addresses.
func Words(mem []uint16) (ReadFunc, WriteFunc) {
	return func(off uint32) uint16 {
			return mem[int(off>>1)%len(mem)]
		}, func(off uint32, v uint16) {
			mem[int(off>>1)%len(mem)] = v
		}
}
