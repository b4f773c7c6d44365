// Package simple implements the standard mixer backend. It groups raw
// mixer-interface controls by base name ("Master Playback Volume" and
// "Master Playback Switch" become channels of one "Master" element),
// derives capability bits from the controls present, and maps volumes
// to decibels by linear interpolation over the reported dB range.
//
// The backend registers itself as "simple"; open it through
// mixer.Open("simple", cfg).
package simple
