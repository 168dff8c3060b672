// Package convert provides the handlers for number conversion commands.
//
// Each command reads numbers of one base and rewrites them in another:
//
//	convert.binToDec  convert.binToHex
//	convert.decToBin  convert.decToHex  convert.decToExp
//	convert.hexToBin  convert.hexToDec
//	convert.expToDec
//
// Every selection is converted on its own. A bare cursor converts the
// number around it; a selection must hold exactly one number, surrounding
// whitespace aside. Selections that hold no valid number are skipped and
// counted in the status message, e.g. "Skipped 2 invalid hexadecimal
// value(s)!". After the edits are applied the selections cover the
// converted numbers.
//
// With the action argument scope = "all" the command converts every
// number of the source base in the buffer instead.
//
// Patterns and destination templates come from the table for the
// context's file type, so each language can spell numbers its own way.
package convert
