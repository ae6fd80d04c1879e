// Package memory provides the cell memories a machine runs against.
//
// Cells keeps cells in an owned Go slice and is the default. Linear keeps
// them in a wazero linear memory, 8 bytes per cell, which makes the machine's
// memory inspectable with the same tools used for wasm guests.
//
// Both implement stacked.Memory and share the same bounds rules: an address
// is valid when it is below capacity, and range operations validate the whole
// range before touching any cell.
package memory
