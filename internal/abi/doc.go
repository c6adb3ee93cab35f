// Package abi provides internal utilities shared by the layout, codec and
// allocation code.
//
// This package contains alignment arithmetic, overflow-checked size math and
// C identifier validation. It implements the standard C layout rule used
// throughout the module: offsets round up to the member alignment, totals
// round up to the aggregate alignment.
//
// This package is internal to cdata.
package abi
