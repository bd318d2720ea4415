// Package manifest parses and writes the creator-supplied tabular manifest
// that describes a bulk mint: a header of field names followed by one row per
// intended item.
//
// Parsing tolerates the loose files creators produce with spreadsheet tools.
// Blank lines are dropped, short rows are padded with empty values, and extra
// trailing values are ignored. Quoted values may contain commas. Header names
// are matched case-insensitively. Fields beginning with TraitPrefix describe
// traits rather than fixed item properties.
package manifest
