package rowbinary

import (
	"math/big"

	"github.com/pkg/errors"
)

// fromLittleEndian converts a little endian two's complement integer to a big.Int.
func fromLittleEndian(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}

	n := new(big.Int).SetBytes(be)
	if signed && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}

	return n
}

// toLittleEndian writes n into a little endian two's complement integer of the given width.
func toLittleEndian(n *big.Int, width int, signed bool) ([]byte, error) {
	bits := width * 8
	if !fits(n, bits, signed) {
		return nil, errors.Wrapf(ErrOverflow, "%s does not fit in %d bits", n, bits)
	}

	v := n
	if n.Sign() < 0 {
		v = new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}

	out := make([]byte, width)
	be := v.Bytes()
	for i := range be {
		out[i] = be[len(be)-1-i]
	}

	return out, nil
}

func fits(n *big.Int, bits int, signed bool) bool {
	if !signed {
		return n.Sign() >= 0 && n.BitLen() <= bits
	}
	if n.Sign() >= 0 {
		return n.BitLen() < bits
	}

	// -2^(bits-1) is the only negative number whose magnitude needs all the bits
	m := new(big.Int).Neg(n)
	return m.BitLen() < bits || (m.BitLen() == bits && m.TrailingZeroBits() == uint(bits-1))
}
