package stego

import (
	"fmt"
	"math"
)

// BitSlot identifies one color channel of one pixel. Channel 0, 1, 2 is R, G, B.
type BitSlot struct {
	X       int
	Y       int
	Channel int
}

// SlotFromIndex maps a raster slot index (y*width+x)*3+channel to its slot.
func SlotFromIndex(index uint32, width int) BitSlot {
	pixel := int(index) / ChannelsPerPixel
	return BitSlot{
		X:       pixel % width,
		Y:       pixel / width,
		Channel: int(index) % ChannelsPerPixel,
	}
}

// Index is the inverse of SlotFromIndex.
func (s BitSlot) Index(width int) uint32 {
	return uint32((s.Y*width+s.X)*ChannelsPerPixel + s.Channel)
}

// PixelScrambler produces the seeded order in which bit slots are visited.
// The permutation is generated on first use and cached on the value, so one
// scrambler serves exactly one embed or extract.
type PixelScrambler struct {
	width        int
	height       int
	seed         uint64
	bitPositions []uint32
}

func NewPixelScrambler(width, height int, seed uint64) (*PixelScrambler, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if uint64(width)*uint64(height)*ChannelsPerPixel > math.MaxUint32 {
		return nil, fmt.Errorf("image %dx%d has too many bit slots to scramble", width, height)
	}

	return &PixelScrambler{
		width:  width,
		height: height,
		seed:   seed,
	}, nil
}

// TotalCapacity is the number of bits the image can carry.
func (s *PixelScrambler) TotalCapacity() int {
	return s.width * s.height * ChannelsPerPixel
}

// BitPositions returns the permuted raster slot indices; position i holds
// bit i of the payload.
func (s *PixelScrambler) BitPositions() []uint32 {
	if s.bitPositions == nil {
		s.bitPositions = s.generateBitPositions()
	}
	return s.bitPositions
}

// SlotAt returns the slot holding payload bit i.
func (s *PixelScrambler) SlotAt(i int) BitSlot {
	return SlotFromIndex(s.BitPositions()[i], s.width)
}

// generateBitPositions shuffles the canonical raster order (y, then x, then
// channel) with a Fisher-Yates pass from the end, drawing j in [0, i].
func (s *PixelScrambler) generateBitPositions() []uint32 {
	n := s.TotalCapacity()
	positions := make([]uint32, n)
	for i := range positions {
		positions[i] = uint32(i)
	}

	rng := newMT19937(s.seed)
	for i := n - 1; i > 0; i-- {
		j := rng.randBelow(uint64(i + 1))
		positions[i], positions[j] = positions[j], positions[i]
	}

	return positions
}
