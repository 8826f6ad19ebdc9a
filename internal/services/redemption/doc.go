/*
Package redemption runs the counter-side protocol: a scanned QR code is
verified, then committed.

Verify is read-only apart from lazy token expiry. It returns the holder, the
ticket that would be consumed, and either the holder's reservation or the
dishes the manager must choose from.

Commit repeats the checks Verify made, resolves the dish to credit, and
then applies the reservation update, dish decrement, ticket consumption,
token consumption and consumption log in one transaction. Exactly one of
several concurrent commits on the same ticket or token succeeds. A
redemption.committed event is published once the transaction has committed.
*/
package redemption
