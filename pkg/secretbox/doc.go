// Package secretbox seals small secrets, such as saved Redis passwords,
// with XChaCha20-Poly1305.
//
// Sealed values carry their random nonce as a prefix. Keys come from a
// 32-byte master key kept in a 0600 file, expanded per purpose with HKDF.
package secretbox
