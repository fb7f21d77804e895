package core

// ItemType identifies the shop item category.
type ItemType string

const (
	ItemAvatar  ItemType = "avatar"
	ItemTheme   ItemType = "theme"
	ItemPowerup ItemType = "powerup"
)

// ShopItem is a static catalog entry for a non-consumable purchase.
type ShopItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        ItemType `json:"type"`
	Cost        int      `json:"cost"`
	Icon        string   `json:"icon"`
}

var shopCatalog = []ShopItem{
	{ID: "avatar-dragon", Name: "Dragon Avatar", Description: "A fierce study companion", Type: ItemAvatar, Cost: 150, Icon: "🐉"},
	{ID: "avatar-unicorn", Name: "Unicorn Avatar", Description: "Sparkles with every answer", Type: ItemAvatar, Cost: 150, Icon: "🦄"},
	{ID: "avatar-robot", Name: "Robot Avatar", Description: "Computes words at lightspeed", Type: ItemAvatar, Cost: 200, Icon: "🤖"},
	{ID: "avatar-wizard", Name: "Wizard Avatar", Description: "Master of word magic", Type: ItemAvatar, Cost: 250, Icon: "🧙"},
	{ID: "theme-ocean", Name: "Ocean Theme", Description: "Deep blue backgrounds", Type: ItemTheme, Cost: 100, Icon: "🌊"},
	{ID: "theme-forest", Name: "Forest Theme", Description: "Calm green backgrounds", Type: ItemTheme, Cost: 100, Icon: "🌲"},
	{ID: "theme-space", Name: "Space Theme", Description: "Learn among the stars", Type: ItemTheme, Cost: 300, Icon: "🚀"},
	{ID: "powerup-streak-shield", Name: "Streak Shield", Description: "Shows a shield on your streak flame", Type: ItemPowerup, Cost: 400, Icon: "🛡️"},
	{ID: "powerup-golden-heart", Name: "Golden Heart", Description: "Golden hearts in every level", Type: ItemPowerup, Cost: 500, Icon: "💛"},
}

// ShopCatalog returns a copy of the full shop listing.
func ShopCatalog() []ShopItem {
	return append([]ShopItem{}, shopCatalog...)
}

// ShopItemByID looks up a catalog entry.
func ShopItemByID(id string) (ShopItem, bool) {
	for _, it := range shopCatalog {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}
