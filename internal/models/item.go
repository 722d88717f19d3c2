package models

type ItemCategory string

const (
	ItemCategoryEssentials ItemCategory = "Essentials"
	ItemCategoryLifestyle  ItemCategory = "Lifestyle"
	ItemCategoryLuxury     ItemCategory = "Luxury"
)

type Item struct {
	Key      string       `json:"key" msgpack:"key"`
	Name     string       `json:"name" msgpack:"name"`
	Price    int64        `json:"price" msgpack:"price"`
	Category ItemCategory `json:"category" msgpack:"category"`
}

type ShopCategory struct {
	Category ItemCategory `json:"category" msgpack:"category"`
	Items    []*Item      `json:"items" msgpack:"items"`
}

// Catalog is ordered the way the shop lists it.
var Catalog = []*Item{
	{"cookie", "🍪 Cookie", 10, ItemCategoryEssentials},
	{"coffee", "☕ Coffee", 50, ItemCategoryEssentials},
	{"rose", "🌹 Rose", 100, ItemCategoryEssentials},
	{"beer", "🍺 Beer", 150, ItemCategoryEssentials},
	{"pizza", "🍕 Pizza", 200, ItemCategoryEssentials},
	{"bronze_ring", "💍 Bronze Ring", 300, ItemCategoryEssentials},
	{"teddy", "🧸 Teddy Bear", 300, ItemCategoryEssentials},
	{"sunglasses", "🕶️ Sunglasses", 400, ItemCategoryEssentials},
	{"hat", "🧢 Cool Hat", 450, ItemCategoryEssentials},
	{"plant", "🪴 Potted Plant", 500, ItemCategoryEssentials},

	{"silver_ring", "💍 Silver Ring", 1000, ItemCategoryLifestyle},
	{"sneakers", "👟 Air Jordans", 2000, ItemCategoryLifestyle},
	{"necklace", "📿 Gold Necklace", 2500, ItemCategoryLifestyle},
	{"bag", "👜 Designer Bag", 3000, ItemCategoryLifestyle},
	{"console", "🎮 Gaming Console", 4000, ItemCategoryLifestyle},
	{"iphone", "📱 iPhone 16", 5000, ItemCategoryLifestyle},
	{"laptop", "💻 Gaming Laptop", 6000, ItemCategoryLifestyle},
	{"guitar", "🎸 Electric Guitar", 7000, ItemCategoryLifestyle},
	{"camera", "📷 DSLR Camera", 8000, ItemCategoryLifestyle},
	{"watch", "⌚ Gold Watch", 10000, ItemCategoryLifestyle},

	{"diamond_ring", "💍 Diamond Ring", 15000, ItemCategoryLuxury},
	{"motorcycle", "🏍️ Motorcycle", 20000, ItemCategoryLuxury},
	{"car", "🏎️ Sports Car", 50000, ItemCategoryLuxury},
	{"boat", "🛥️ Luxury Boat", 75000, ItemCategoryLuxury},
	{"tiny_house", "🏠 Tiny House", 100000, ItemCategoryLuxury},
	{"penthouse", "🏙️ Penthouse", 200000, ItemCategoryLuxury},
	{"mansion", "🏰 Mansion", 300000, ItemCategoryLuxury},
	{"robot", "🤖 Robot Butler", 400000, ItemCategoryLuxury},
	{"island", "🏝️ Private Island", 500000, ItemCategoryLuxury},
}

var catalogIndex = func() map[string]*Item {
	out := make(map[string]*Item, len(Catalog))
	for _, item := range Catalog {
		out[item.Key] = item
	}
	return out
}()

func FindItem(key string) (*Item, bool) {
	item, ok := catalogIndex[key]
	return item, ok
}

func CatalogByCategory() []ShopCategory {
	var out []ShopCategory
	for _, item := range Catalog {
		if len(out) == 0 || out[len(out)-1].Category != item.Category {
			out = append(out, ShopCategory{Category: item.Category})
		}
		out[len(out)-1].Items = append(out[len(out)-1].Items, item)
	}
	return out
}
