/*
Package cash defines a simple implementation of sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

The escrow uses this package as its native balance ledger: an escrow owns
a wallet like any other address.
*/
package cash
