package systems

import "gonum.org/v1/gonum/spatial/r3"

// UpdateBabble adjusts the babble drive: it decays while Alice is near either
// friend and grows otherwise. Returns true if a friend was in range.
func UpdateBabble(drive *float64, alice r3.Vec, friends [2]r3.Vec, p BabbleParams) (nearFriend bool) {
	nearFriend = Distance2D(alice, friends[0]) <= p.MaxDistance ||
		Distance2D(alice, friends[1]) <= p.MaxDistance

	if nearFriend {
		*drive -= p.Decrement
	} else {
		*drive += p.Increment
	}
	return nearFriend
}
