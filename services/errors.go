package services

import "errors"

// Check-in and redemption failures. Every one of these aborts before (or
// rolls back) any write, so a rejected request leaves no partial state.
var (
	ErrInvalidCredential     = errors.New("invalid check-in token")
	ErrCredentialExpired     = errors.New("token is expired for today")
	ErrNoActiveSeason        = errors.New("no active season")
	ErrRateLimited           = errors.New("check-in cooldown active for this location")
	ErrRewardNotFound        = errors.New("reward not found")
	ErrNotYourReward         = errors.New("reward belongs to another user")
	ErrNotRedeemable         = errors.New("raffle entries are auto-recorded and not redeemable")
	ErrInsufficientLocations = errors.New("not enough active locations to fill the board")
)
