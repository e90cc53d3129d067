// Package dat loads Logiqx-style DAT catalogs (the XML format used by No-Intro and
// Redump) into reconcile entries.
//
// Only the fields the matcher needs are read: the header metadata and, for each
// game or machine, the rom name, MD5 and SHA1. Every rom becomes one entry, so
// multi-rom games are fully matchable. Matching is by MD5, so a catalog whose roms
// carry only CRC or SHA1 (most MAME DATs) is rejected, as is one with rom-less
// device machines.
//
// # Usage
//
//	cat, err := dat.Load("Nintendo - NES.dat")
//	index := reconcile.NewIndex(cat.Entries)
package dat
