/*
Package listing implements storage of the marketplace listings.

Listing is a pair of the seller's deposited quantity of some asset and unit
price of this asset. Listing is identified by the seller (owner) and the asset,
so each seller has at most one listing per asset.

Storage layout

Listings are stored under the common 8-byte namespace prefix:

	key:   "listings" | owner (32 bytes) | asset ID (8 bytes, big-endian)
	value: deposited (8 bytes, big-endian) | unitary price (8 bytes, big-endian)

Each record is backed by the rent (see package rent) which must be paid on the
record creation and is refunded on its removal.
*/
package listing
