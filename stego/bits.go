package stego

// BytesToBits expands data into one bit per byte, most significant bit first.
func BytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*BitsInByte)
	for _, b := range data {
		for i := BitsInByte - 1; i >= 0; i-- {
			bits = append(bits, (b>>i)&1)
		}
	}
	return bits
}

// BitsToBytes packs bits back into bytes. A trailing group shorter than
// eight bits is dropped.
func BitsToBytes(bits []byte) []byte {
	out := make([]byte, 0, len(bits)/BitsInByte)
	for i := 0; i+BitsInByte <= len(bits); i += BitsInByte {
		var b byte
		for j := 0; j < BitsInByte; j++ {
			b = (b << 1) | (bits[i+j] & 1)
		}
		out = append(out, b)
	}
	return out
}
