/*
Package message provides the events exchanged between publishers of enum
schemas and the processes that serve them.

EventType is generated from event_type.json. It is an open enum so a
subscriber built before a new type was introduced still decodes the event,
as EventType_UNRECOGNIZED, and can decide to skip it.
*/
package message

//go:generate go run ../../ generate -f event_type.json -o .
