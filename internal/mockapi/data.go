package mockapi

type fieldRecord struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Shown       bool   `json:"shown"`
	Required    bool   `json:"required"`
}

type itemRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Category    string `json:"category,omitempty"`
	Available   *bool  `json:"available,omitempty"`
}

type restaurantRecord struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Logo           string       `json:"logo,omitempty"`
	Status         string       `json:"status"`
	View           string       `json:"view"`
	Currency       string       `json:"currency"`
	ThemeColor     string       `json:"theme_color"`
	RequiredInfo   string       `json:"required_info,omitempty"`
	PrimaryField   *fieldRecord `json:"primary_field,omitempty"`
	SecondaryField *fieldRecord `json:"secondary_field,omitempty"`
	MenuItems      []itemRecord `json:"menu_items"`
}

func unavailable() *bool {
	v := false
	return &v
}

func demoMenu() []itemRecord {
	return []itemRecord{
		{ID: 1, Name: "حمص", Description: "حمص طازج مع زيت الزيتون والليمون", Price: 15, Category: "مقبلات"},
		{ID: 2, Name: "تبولة", Description: "تبولة لبنانية تقليدية مع البقدونس والبرغل", Price: 18, Category: "مقبلات"},
		{ID: 3, Name: "متبل", Description: "باذنجان مشوي مع الطحينة والثوم", Price: 16, Category: "مقبلات"},
		{ID: 4, Name: "شاورما دجاج", Description: "شاورما دجاج مع خبز صاج وخضروات طازجة", Price: 28, Category: "أطباق رئيسية"},
		{ID: 5, Name: "كباب لحم", Description: "كباب لحم مشوي مع أرز وخضروات", Price: 35, Category: "أطباق رئيسية"},
		{ID: 6, Name: "مشاوي مشكلة", Description: "مشكلة من الدجاج واللحم مع صلصة الثوم", Price: 42, Category: "أطباق رئيسية", Available: unavailable()},
		{ID: 7, Name: "سلطة خضراء", Description: "سلطة خضراء طازجة مع صلصة زيت الزيتون", Price: 20, Category: "سلطات"},
		{ID: 8, Name: "سلطة فتوش", Description: "سلطة فتوش لبنانية مع خبز مقرمش", Price: 22, Category: "سلطات"},
		{ID: 9, Name: "عصير برتقال طازج", Description: "عصير برتقال طازج مع الثلج", Price: 12, Category: "مشروبات"},
		{ID: 10, Name: "عصير ليمون", Description: "عصير ليمون طازج مع النعناع", Price: 10, Category: "مشروبات"},
		{ID: 11, Name: "كنافة", Description: "كنافة تقليدية مع جبنة وجوز", Price: 25, Category: "حلويات"},
		{ID: 12, Name: "بقلاوة", Price: 20},
	}
}

// demoRestaurants returns the restaurants served by a new Server.
func demoRestaurants() []restaurantRecord {
	return []restaurantRecord{
		{
			ID:           "demo-restaurant-001",
			Name:         "مطعم القروستو",
			Status:       "active",
			View:         "list",
			Currency:     "د.ك",
			ThemeColor:   "green",
			RequiredInfo: "رقم الطاولة",
			MenuItems:    demoMenu(),
		},
		{
			ID:         "restaurant-002",
			Name:       "مطعم الشرق",
			Status:     "active",
			View:       "cards",
			Currency:   "د.ك",
			ThemeColor: "yellow",
			PrimaryField: &fieldRecord{
				Name: "table_number", Label: "رقم الطاولة", Type: "numeric", Placeholder: "١٢", Shown: true, Required: true,
			},
			SecondaryField: &fieldRecord{
				Name: "customer_name", Label: "الاسم", Type: "text", Shown: true, Required: false,
			},
			MenuItems: demoMenu(),
		},
		{
			ID:         "restaurant-003",
			Name:       "مطعم البحر المتوسط",
			Status:     "inactive",
			View:       "list",
			Currency:   "د.ك",
			ThemeColor: "blue",
			MenuItems:  demoMenu(),
		},
	}
}
