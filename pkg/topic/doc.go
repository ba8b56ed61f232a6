// Package topic computes broker topic names for daily-item delivery.
//
// The broker schedules one broadcast per topic per day, keyed to the
// anchor timezone UTC-12 (the last timezone to reach any calendar date).
// A device that wants delivery at local hour H therefore has to translate
// (H, its UTC offset) into the anchor-frame hour at which the broker
// fires, plus a day-boundary suffix.
//
// # Topic Format
//
// Topic names are rendered as "<prefix>_<HH><suffix>":
//   - HH: two-digit anchor-frame hour, 00-23
//   - suffix: "c" when the anchor-frame broadcast for today coincides
//     with the user's today, "n" when the user must wait for the anchor
//     frame's next cycle
//
// The format is a wire contract shared with the backend broadcast
// scheduler and must match byte-for-byte.
//
// # Determinism
//
// All calculations are performed against a fixed internal reference date,
// never the wall clock, so the same (hour, offset) pair always yields the
// same topic name regardless of when or where it is computed.
package topic
