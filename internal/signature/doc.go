// Package signature appends and verifies pinsign document signatures.
//
// A signed document is the original bytes, a newline and a text container:
//
//	<<
//	/Type /Sig
//	/Filter /Adobe.PPKLite
//	/SubFilter /adbe.pkcs7.detached
//	/ByteRange [0 N N 0]
//	/Contents <hex RSA signature>
//	>>
//
// N is the length of the original document. The document itself is treated
// as opaque bytes; nothing is parsed. Despite the marker names this is not
// a PDF signature dictionary and no PDF reader will recognise it.
//
// # Signing Input
//
// The verifier cannot know where the original document ended, so it
// reconstructs the signed bytes from the signed file: everything before the
// container and everything after it, each with trailing whitespace removed,
// plus one newline. The signer signs exactly that reconstruction
// (SigningInput), so any document round-trips. For a document that already
// ends in a single newline after non-whitespace, the signing input is the
// document unchanged.
//
// Because trailing whitespace is normalised, edits that only change
// whitespace at the very end of the document are not detected.
//
// # Algorithms
//
// RSASSA-PKCS1-v1_5 over SHA-256.
package signature
