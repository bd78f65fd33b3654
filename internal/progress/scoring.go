package progress

// Multipliers converts raw cone counts into points, one factor per level.
// The table is owned by configuration and passed in at construction time.
type Multipliers map[Level]int

// DefaultMultipliers returns the standard point factors. Harder levels
// pay more per cone.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		LevelA: 10,
		LevelB: 8,
		LevelC: 6,
		LevelD: 4,
		LevelE: 2,
	}
}

// PointsByLevel maps each level to its current point balance.
type PointsByLevel map[Level]int

// newPoints returns a zeroed balance table covering every level.
func newPoints() PointsByLevel {
	p := make(PointsByLevel, len(Levels))
	for _, l := range Levels {
		p[l] = 0
	}
	return p
}

// Total sums all level balances.
func (p PointsByLevel) Total() int {
	total := 0
	for _, v := range p {
		total += v
	}
	return total
}

// clone returns an independent copy of the balance table.
func (p PointsByLevel) clone() PointsByLevel {
	cp := make(PointsByLevel, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// Recompute derives the full balance table from scratch.
//
// Every log is looked up in the live catalog: a log whose trick no longer
// exists (orphaned) contributes nothing, since the multiplier depends on a
// live level lookup. Every redeemed item found in the shop deducts its cost
// from its required level. The result is independent of whatever totals
// were previously recorded, which is what makes it safe to run against a
// stale or hand-edited persisted blob. Running it twice on the same inputs
// yields the same output.
func Recompute(catalog *Catalog, logs map[string]PracticeLog, redeemed []string, shop *Shop, mult Multipliers) (PointsByLevel, int) {
	points := newPoints()

	for _, log := range logs {
		trick, ok := catalog.Get(log.TrickID)
		if !ok {
			continue
		}
		points[trick.Level] += log.Cones * mult[trick.Level]
	}

	for _, id := range redeemed {
		item, ok := shop.Get(id)
		if !ok {
			continue
		}
		points[item.RequiredBadgeLevel] -= item.Cost
	}

	return points, points.Total()
}

// ApplyLogSave applies the point delta of a single log save to points.
// prev is the log being overwritten, or nil on a first save. The trick's
// level is resolved once by the caller; this function never re-validates
// it against the catalog. Saves are frequent, so this keeps each save O(1)
// in the number of logs instead of a full rescan.
func ApplyLogSave(points PointsByLevel, prev *PracticeLog, cones int, level Level, mult Multipliers) (PointsByLevel, int) {
	prevCones := 0
	if prev != nil {
		prevCones = prev.Cones
	}
	points[level] += (cones - prevCones) * mult[level]
	return points, points.Total()
}

// ApplyRedemption attempts to redeem item against points and the redeemed
// set. Preconditions: the item is not already redeemed, and the balance at
// its required level covers the cost. On success the deduction is applied,
// the id is appended, and the updated set is returned with ok=true. On any
// precondition failure nothing changes and ok=false; the reason is not
// distinguished.
func ApplyRedemption(points PointsByLevel, redeemed []string, item ShopItem) (updated []string, total int, ok bool) {
	for _, id := range redeemed {
		if id == item.ID {
			return redeemed, points.Total(), false
		}
	}
	if points[item.RequiredBadgeLevel] < item.Cost {
		return redeemed, points.Total(), false
	}
	points[item.RequiredBadgeLevel] -= item.Cost
	return append(redeemed, item.ID), points.Total(), true
}
