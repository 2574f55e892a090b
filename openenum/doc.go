// Package openenum is the runtime used by generated enum types.
//
// An enum is described by a Descriptor: an ordered list of named values, each
// bound to a fixed wire number. Open enums tolerate numbers that were not
// declared when the program was built. Those numbers are represented by a
// distinguished UNRECOGNIZED variant which sits after every named variant and
// has no number of its own: asking for it fails with ErrUnrecognized.
//
// Variants are identified by their ordinal, i.e. their position in the
// declaration. Generated types are integer ordinals as well, so
//
//	LargeOpenEnumValues()[i] == LargeOpenEnum(i)
//
// holds for every variant including the sentinel.
//
// When the raw wire number of an unrecognized value has to survive a round
// trip, decode into a Value instead. A Value is either a known variant or an
// unrecognized number and always remembers the number read from the wire.
package openenum
