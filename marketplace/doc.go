/*
Package marketplace implements operations of the escrow marketplace.

Sellers deposit fungible assets into the custodial account and set unit
price. Buyers purchase asset units paying the seller directly while the
custodian releases purchased units to the buyer. Each (seller, asset) pair
forms an independent listing kept in the listing storage (see package
listing).

Operations

Each operation is invoked within an atomic group of the execution
environment together with its companion transfers (see package transfer).
Operation fails if any companion transfer does not match the expectations,
and the environment must reject the whole group in this case. Changes of the
listing storage made by the succeeded operation are persisted only on commit
of the group (see Environment.OnCommit).

	EnableAsset   registers the custodian for the asset, the caller pays the
	              opt-in reserve to the custodian.
	FirstDeposit  opens listing of the caller: the caller pays listing rent and
	              transfers positive amount of the asset to the custodian.
	Deposit       tops up existing listing of the caller.
	SetPrice      replaces unit price of the caller's listing.
	Buy           purchases asset units from the listing of the specified
	              owner, the caller pays price*quantity to the owner.
	Withdraw      closes listing of the caller: remaining asset units and
	              listing rent are returned to the caller.

Read-only RentQuote returns the rent which FirstDeposit requires and Withdraw
refunds.
*/
package marketplace
