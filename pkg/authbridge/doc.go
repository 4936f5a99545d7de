// Package authbridge turns a login attempt against the host application into
// a verified local user backed by an Appwrite identity.
//
// Appwrite is the source of truth for passwords. The local directory is a
// projection keyed by a name derived deterministically from the login
// identifier: emails map to the resolved Appwrite email, opaque identifiers
// map to themselves. The bridge never stores credentials or sessions; it
// validates a password by creating and immediately discarding an Appwrite
// session.
package authbridge
