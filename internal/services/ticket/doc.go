/*
Package ticket implements the ticket ledger: issuing numbered batches of meal
tickets against the monthly purchase quota, and consuming or cancelling them
one at a time with conditional updates.

Usage:

	svc := ticket.NewService(tickets, purchases, users, tx)

	// Issue a batch for a completed sale
	issued, err := svc.Issue(ctx, ticket.IssueRequest{
	    OwnerID:    clientID,
	    PurchaseID: purchaseID,
	    Count:      10,
	    ValidFrom:  first,
	    ValidUntil: last,
	}, settings)

	// Consume one ticket at a restaurant counter
	t, err := svc.Consume(ctx, ticketID, restaurantID, validatorID)

Numbers have the form YYYYMM-NNNNN. The sequence restarts every month and
continues after the highest number already stored for that month.
*/
package ticket
