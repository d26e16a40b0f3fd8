// Package integrity checks downloaded artifacts against the digests a
// release server publishes alongside them.
//
// # Digest Sources
//
// Two response headers carry a 128-bit MD5 of the body:
//   - ETag: a quoted hex string, e.g. "d41d8cd98f00b204e9800998ecf8427e"
//     (object stores such as S3 use the content MD5 as the entity tag)
//   - Content-MD5: the base64 encoding of the 16 raw digest bytes
//
// Both are decoded into a Digest and compared byte-for-byte with the MD5 of
// the downloaded data. Decoding is strict: a tag that is not quoted, a hex
// string with a non-hex character, or base64 that does not decode to exactly
// 16 bytes fails with ErrMalformedDigest instead of producing a garbage
// expectation.
//
// # Failure Model
//
// A digest mismatch is not an error. Verify, VerifyEntityTag and
// VerifyContentDigest report it as false so the caller decides whether to
// reject the artifact, re-download, or continue. Only malformed input is an
// error.
//
// # Signatures
//
// When a release also ships a detached OpenPGP signature, VerifySignature
// checks it against a keyring loaded with LoadKeyring.
package integrity
