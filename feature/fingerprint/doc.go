// Package fingerprint computes the content hashes files are matched by.
//
// Hashes are lowercase hex MD5, the digest DAT catalogs in this domain are keyed by.
// Some formats embed a fixed-size header that catalogs exclude; HeaderSkip holds the
// extension table for those (currently only iNES ".nes" with a 16-byte header).
package fingerprint
