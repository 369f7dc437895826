package prefix

import "github.com/go-wordpack/wordpack/bitio"

// Descriptor escape symbols (spec §3, §4.2): the bit-length descriptor
// alphabet uses a fixed 5-bit raw width per symbol, so values 0..15 are
// literal bit-lengths and 21..23 are RLE escapes — unlike DEFLATE, there
// is no secondary Huffman tree over the descriptor alphabet itself.
const (
	descCopyPrev      = 21 // copy previous non-zero length, 3..6 times (2 extra bits)
	descRepeatZeroShort = 22 // run of zeros, 3..10 times (3 extra bits)
	descRepeatZeroLong  = 23 // run of zeros, 11..138 times (7 extra bits)

	descBitWidth = 5
)

// EncodeDescriptor writes the bit-length vector lengths using the RLE
// alphabet-of-alphabets scheme (spec §4.2). Runs of fewer than 3 identical
// values are emitted as raw codes; zero runs longer than 138 and
// non-zero runs longer than 6 are split across multiple escape codes.
func EncodeDescriptor(w *bitio.Writer, lengths []uint8) error {
	n := len(lengths)
	i := 0
	for i < n {
		v := lengths[i]
		run := 1
		for i+run < n && lengths[i+run] == v {
			run++
		}

		if v == 0 {
			left := run
			for left > 0 {
				switch {
				case left >= 11:
					chunk := left
					if chunk > 138 {
						chunk = 138
					}
					if err := w.WriteBits(descRepeatZeroLong, descBitWidth); err != nil {
						return err
					}
					if err := w.WriteBits(uint32(chunk-11), 7); err != nil {
						return err
					}
					left -= chunk
				case left >= 3:
					chunk := left
					if chunk > 10 {
						chunk = 10
					}
					if err := w.WriteBits(descRepeatZeroShort, descBitWidth); err != nil {
						return err
					}
					if err := w.WriteBits(uint32(chunk-3), 3); err != nil {
						return err
					}
					left -= chunk
				default:
					if err := w.WriteBits(0, descBitWidth); err != nil {
						return err
					}
					left--
				}
			}
		} else {
			// Emit the first occurrence raw, then COPY_PREV for the rest
			// of the run in chunks of up to 6.
			if err := w.WriteBits(uint32(v), descBitWidth); err != nil {
				return err
			}
			remaining := run - 1
			for remaining > 0 {
				if remaining < 3 {
					for ; remaining > 0; remaining-- {
						if err := w.WriteBits(uint32(v), descBitWidth); err != nil {
							return err
						}
					}
					break
				}
				chunk := remaining
				if chunk > 6 {
					chunk = 6
				}
				if err := w.WriteBits(descCopyPrev, descBitWidth); err != nil {
					return err
				}
				if err := w.WriteBits(uint32(chunk-3), 2); err != nil {
					return err
				}
				remaining -= chunk
			}
		}
		i += run
	}
	return nil
}

// DecodeDescriptor reads exactly n bit-length values written by
// EncodeDescriptor.
func DecodeDescriptor(r *bitio.Reader, n int) []uint8 {
	lengths := make([]uint8, 0, n)
	var prev uint8
	for len(lengths) < n {
		sym := r.ReadBits(descBitWidth)
		switch sym {
		case descCopyPrev:
			count := int(r.ReadBits(2)) + 3
			for i := 0; i < count && len(lengths) < n; i++ {
				lengths = append(lengths, prev)
			}
		case descRepeatZeroShort:
			count := int(r.ReadBits(3)) + 3
			for i := 0; i < count && len(lengths) < n; i++ {
				lengths = append(lengths, 0)
			}
		case descRepeatZeroLong:
			count := int(r.ReadBits(7)) + 11
			for i := 0; i < count && len(lengths) < n; i++ {
				lengths = append(lengths, 0)
			}
		default:
			lengths = append(lengths, uint8(sym))
			prev = uint8(sym)
		}
	}
	return lengths
}
