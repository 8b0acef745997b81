package dispatcher

import (
	"leasevault/coin"
	"leasevault/core/types"
)

const EventTypeRewards = "tr-rewards"

// NewRewardsEvent builds the `tr-rewards` event (§6): the destination LPP
// address and the native-currency amount it was just credited.
func NewRewardsEvent(to string, rewards coin.Coin) *types.Event {
	return &types.Event{
		Type: EventTypeRewards,
		Attributes: map[string]string{
			"to":      to,
			"rewards": rewards.String(),
		},
	}
}
