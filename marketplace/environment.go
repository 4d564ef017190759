package marketplace

import (
	"github.com/google/uuid"
	"github.com/nspcc-dev/escrow-market/common"
)

// Environment groups services of the execution environment the marketplace
// operation runs in. Environment represents single atomic group: outbound
// transfers requested through it are executed only together with the
// operation's companion transfers.
//
// If the operation returns an error, the group must be discarded. Otherwise,
// the operation has registered its changes of the listing storage with
// OnCommit, and they are persisted only if the group is committed.
type Environment interface {
	// Custodian returns identity of the account holding deposited assets.
	Custodian() common.Identity

	// IsOptedIn checks whether the custodian is registered to hold the asset.
	IsOptedIn(common.AssetID) bool

	// MinOptInReserve returns amount of the ledger currency the custodian must
	// reserve to hold one more asset.
	MinOptInReserve() uint64

	// RequestAssetRegistration schedules opt-in of the custodian for the asset.
	RequestAssetRegistration(common.AssetID) error

	// RequestAssetTransfer schedules transfer of the asset units from the
	// custodian to the given account.
	RequestAssetTransfer(asset common.AssetID, to common.Identity, amount uint64) error

	// RequestPayment schedules payment from the custodian to the given account.
	RequestPayment(to common.Identity, amount uint64) error

	// OnCommit registers function called on the group commit before any of its
	// transfers take effect. If the function returns an error, the whole group
	// is rejected. The function is never called for the discarded group.
	//
	// The group carries at most one function, OnCommit fails on the second
	// registration.
	OnCommit(func() error) error
}

// Call describes single operation invocation.
type Call struct {
	// Invocation identifier, used for logging only.
	ID uuid.UUID

	// Account submitted the operation.
	Caller common.Identity

	// Atomic group the operation is executed within.
	Env Environment
}

// NewCall returns Call with random ID.
func NewCall(caller common.Identity, env Environment) Call {
	return Call{
		ID:     uuid.New(),
		Caller: caller,
		Env:    env,
	}
}
