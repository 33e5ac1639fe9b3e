// Package jwt decodes access tokens without verifying their signatures.
//
// The client never holds signing keys; every protected call is re-authorized
// by the server, so decoded claims are advisory only. They drive UI gating
// (role display, proactive refresh scheduling) and must never be treated as
// a security boundary. Any malformed token decodes to nil rather than an
// error so that a corrupt stored value cannot crash application bootstrap.
package jwt
