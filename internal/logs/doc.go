// Package logs reads the layerpage log file for the logs command.
//
// Reads are line oriented with bounded memory: Last keeps a ring of the
// newest lines, and Follow polls from a byte offset until its context ends.
// Offsets returned by every call point just past the last complete line read
// so callers can resume without duplicating output.
package logs
