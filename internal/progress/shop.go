package progress

// ShopItem describes a single redeemable reward. Items are immutable
// reference data; redemption only records the item id against the user.
type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// RequiredBadgeLevel names the point bucket the cost is paid from.
	RequiredBadgeLevel Level `json:"requiredBadgeLevel"`
	Cost               int   `json:"cost"`
}

// Shop holds the complete set of redeemable items.
type Shop struct {
	items []ShopItem
	byID  map[string]ShopItem
}

// NewShop creates a shop pre-loaded with the full reward list.
func NewShop() *Shop {
	s := &Shop{byID: make(map[string]ShopItem)}
	s.items = buildShopItems()
	for _, it := range s.items {
		s.byID[it.ID] = it
	}
	return s
}

// Items returns all shop items in catalog order.
func (s *Shop) Items() []ShopItem {
	out := make([]ShopItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id.
func (s *Shop) Get(id string) (ShopItem, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// buildShopItems returns the authoritative reward list. Cheap consumables
// sit at the easy levels; hardware rewards require points from the hard ones.
func buildShopItems() []ShopItem {
	return []ShopItem{
		{ID: "s1", Name: "Pro Bearings Set", Description: "Ceramic bearings for competition speed", RequiredBadgeLevel: LevelA, Cost: 150},
		{ID: "s2", Name: "Slalom Wheels 4x80", Description: "Full set of 80mm freestyle wheels", RequiredBadgeLevel: LevelB, Cost: 120},
		{ID: "s3", Name: "Custom Footbeds", Description: "Heat-moulded footbeds for wheeling control", RequiredBadgeLevel: LevelB, Cost: 100},
		{ID: "s4", Name: "Alloy Frame", Description: "Short rockered frame for tighter lines", RequiredBadgeLevel: LevelA, Cost: 200},
		{ID: "s5", Name: "Cone Pack (20)", Description: "Regulation slalom cones, set of twenty", RequiredBadgeLevel: LevelD, Cost: 60},
		{ID: "s6", Name: "Skate Backpack", Description: "Carries skates, cones and pads", RequiredBadgeLevel: LevelC, Cost: 80},
		{ID: "s7", Name: "Spare Wheel 76mm", Description: "Single replacement wheel", RequiredBadgeLevel: LevelE, Cost: 30},
		{ID: "s8", Name: "Sticker Sheet", Description: "Club sticker pack for your skates", RequiredBadgeLevel: LevelE, Cost: 20},
		{ID: "s9", Name: "Knee Pads", Description: "Low-profile pads for sitting tricks", RequiredBadgeLevel: LevelD, Cost: 50},
	}
}
