package stego

import "math/bits"

// MT19937 parameters from Matsumoto and Nishimura's reference mt19937ar.c.
const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mt19937 is the 32-bit Mersenne Twister. It is the fixed generator behind
// the pixel permutation: seeding, bounded draws and shuffle order are part of
// the stego format and must not change.
type mt19937 struct {
	state [mtN]uint32
	index int
}

// newMT19937 seeds with init_by_array using the seed's little-endian 32-bit
// words as the key. Zero seeds with the key [0].
func newMT19937(seed uint64) *mt19937 {
	key := []uint32{uint32(seed)}
	if hi := uint32(seed >> 32); hi != 0 {
		key = append(key, hi)
	}

	mt := &mt19937{}
	mt.seedByArray(key)
	return mt
}

func (mt *mt19937) seed(s uint32) {
	mt.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := mt.state[i-1]
		mt.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	mt.index = mtN
}

func (mt *mt19937) seedByArray(key []uint32) {
	mt.seed(19650218)

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := mt.state[i-1]
		mt.state[i] = (mt.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			mt.state[0] = mt.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		prev := mt.state[i-1]
		mt.state[i] = (mt.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			mt.state[0] = mt.state[mtN-1]
			i = 1
		}
	}

	mt.state[0] = 0x80000000
	mt.index = mtN
}

func (mt *mt19937) twist() {
	for k := 0; k < mtN; k++ {
		y := (mt.state[k] & mtUpperMask) | (mt.state[(k+1)%mtN] & mtLowerMask)
		next := mt.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		mt.state[k] = next
	}
	mt.index = 0
}

func (mt *mt19937) uint32() uint32 {
	if mt.index >= mtN {
		mt.twist()
	}
	y := mt.state[mt.index]
	mt.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// randBits returns k random bits, 1 <= k <= 64. Wider draws fill 32-bit
// words from the least significant end; the last word keeps its high bits.
func (mt *mt19937) randBits(k int) uint64 {
	if k <= 32 {
		return uint64(mt.uint32() >> (32 - k))
	}
	lo := uint64(mt.uint32())
	hi := uint64(mt.uint32() >> (64 - k))
	return lo | hi<<32
}

// randBelow draws uniformly from [0, n) by rejection over bitlen(n) bits.
func (mt *mt19937) randBelow(n uint64) uint64 {
	k := bits.Len64(n)
	r := mt.randBits(k)
	for r >= n {
		r = mt.randBits(k)
	}
	return r
}
