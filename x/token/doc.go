/*
Package token implements a fungible token ledger.

A token is issued once with a fixed name and an initial supply credited to
the issuer. Holders must open an account before receiving tokens. The issuer
can mint more tokens and any holder can burn its own. The sum of all account
balances of a token always equals the recorded supply.
*/
package token
