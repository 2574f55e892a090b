package openenum

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// AppendValue appends field num holding v as a varint. Unrecognized values
// are written with their raw number so they survive the round trip.
func AppendValue(b []byte, num protowire.Number, v Value) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v.raw)))
}

// ConsumeValue parses a tag and varint from the front of b and decodes it
// with d. It returns the field number, the value and the number of bytes
// consumed.
func ConsumeValue(d *Descriptor, b []byte) (protowire.Number, Value, int, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return 0, Value{}, 0, errors.Wrap(protowire.ParseError(n), "consuming tag")
	}
	if typ != protowire.VarintType {
		return 0, Value{}, 0, errors.Errorf("field %d: enum values use varint encoding, got wire type %d", num, typ)
	}
	x, m := protowire.ConsumeVarint(b[n:])
	if m < 0 {
		return 0, Value{}, 0, errors.Wrapf(protowire.ParseError(m), "field %d", num)
	}
	// Negative numbers are sign-extended to 64 bits on the wire.
	v, err := d.Decode(Number(int32(x)))
	if err != nil {
		return 0, Value{}, 0, errors.Wrapf(err, "field %d", num)
	}
	return num, v, n + m, nil
}
