/*
Package escrow implements a hash time locked escrow.

An escrow instance is deployed bound to an asset backend and a hash
function. The depositor locks an amount behind a hashlock and an expiry.
The recipient releases the funds by revealing the secret whose hash equals
the hashlock. After the expiry the funds can be refunded to the depositor.
Release and refund are mutually exclusive and both drain the escrow
completely.

The revealed secret is stored with the escrow, so that the counterpart of
an atomic swap can look it up by hashlock.

The state machine does not know how value is held. It delegates every
movement to a Backend: NativeBalance keeps the escrow funds in a cash
wallet, LedgerToken keeps them in a token ledger account.
*/
package escrow
