// Package token persists the access/refresh token pair, the cached user,
// and the selected-branch context behind a small storage port.
//
// Two drivers are provided: an in-memory map for tests and single-process
// use, and a Redis driver for durable storage. Both share the same
// fail-soft contract: a missing or corrupt value reads back as the zero
// value, never as an error, so bootstrap cannot be broken by bad data left
// over from an older version.
package token
