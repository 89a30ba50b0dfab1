/*
Package sigs provides basic authentication
middleware to verify the ed25519 signatures on the transaction,
and maintain sequence numbers for replay protection.

Every signature commits to the chain id and to the current sequence of
the signing key, so a signed transaction cannot be replayed.
*/
package sigs
