/*
Package hashlock implements the commitment used to lock an escrow.

> A Hashlock is a type of encumbrance that restricts the spending of an output
> until a specified piece of data is publicly revealed. Hashlocks have the useful
> property that once any hashlock is opened publicly, any other hashlock secured
> using the same key can also be opened.

https://en.bitcoinwiki.org/wiki/Hashlock

A Secret always has a canonical, fixed width encoding of 32 bytes so that two
different logical values can never produce the same hash input. The hash
function is pluggable (see Hasher) so that the same secret can be committed
the way the counterparty ledger of an atomic swap expects.
*/
package hashlock
