// Package stego to implement LSB embedding of files in RGB images
package stego

import "fmt"

// Carrier is an RGB pixel buffer. Channel values are 0-255 and channel is
// 0, 1 or 2 for R, G, B.
type Carrier interface {
	Width() int
	Height() int
	Channel(x, y, channel int) uint8
	SetChannel(x, y, channel int, value uint8)
}

// Capacity is the number of bits img can carry, one per channel.
func Capacity(img Carrier) int {
	return img.Width() * img.Height() * ChannelsPerPixel
}

// EmbedBits writes bits into the channel LSBs of img. With a nil order, bit i
// goes to raster slot i (pixels left to right, top to bottom, R G B within a
// pixel); otherwise it goes to slot order[i]. Nothing is written when the
// bits do not fit.
func EmbedBits(img Carrier, bits []byte, order []uint32) error {
	capacity := Capacity(img)
	if err := checkOrder(order, capacity); err != nil {
		return err
	}
	if len(bits) > capacity {
		return fmt.Errorf("%w: need %d bits, image holds %d", ErrCapacityExceeded, len(bits), capacity)
	}

	width := img.Width()
	for i, bit := range bits {
		slot := slotFor(i, order, width)
		v := img.Channel(slot.X, slot.Y, slot.Channel)
		img.SetChannel(slot.X, slot.Y, slot.Channel, (v&0xFE)|(bit&1))
	}
	return nil
}

// ExtractBits reads the LSB of every slot in the image, in the same order
// EmbedBits would write them.
func ExtractBits(img Carrier, order []uint32) ([]byte, error) {
	capacity := Capacity(img)
	if err := checkOrder(order, capacity); err != nil {
		return nil, err
	}

	width := img.Width()
	bits := make([]byte, capacity)
	for i := range bits {
		slot := slotFor(i, order, width)
		bits[i] = img.Channel(slot.X, slot.Y, slot.Channel) & 1
	}
	return bits, nil
}

func slotFor(i int, order []uint32, width int) BitSlot {
	if order == nil {
		return SlotFromIndex(uint32(i), width)
	}
	return SlotFromIndex(order[i], width)
}

func checkOrder(order []uint32, capacity int) error {
	if order != nil && len(order) != capacity {
		return fmt.Errorf("permutation has %d slots, image has %d", len(order), capacity)
	}
	return nil
}
