package models

// ItemSales is one row of a per-item aggregation.
type ItemSales struct {
	ItemID     string `json:"id" gorm:"column:item_id"`
	Name       string `json:"itemNm" gorm:"column:name"`
	Price      int64  `json:"price" gorm:"column:price"`
	SellStatus string `json:"itemSellStatus" gorm:"column:sell_status"`
	SellCount  int64  `json:"sellCount,omitempty" gorm:"column:sell_count"`
	OrderCount int64  `json:"orderCount,omitempty" gorm:"column:order_count"`
	ImgURL     string `json:"imgUrl,omitempty" gorm:"-"`
}

// MainReport is the storefront landing page aggregation.
type MainReport struct {
	TopSales []ItemSales `json:"topSales"`
	TopToday []ItemSales `json:"topToday"`
	TopMonth []ItemSales `json:"topMonth"`
	NewItems []Item      `json:"newItems"`
}

// AdminReport is the administrative order dashboard: the orders of a window
// and the per-item totals of the same window.
type AdminReport struct {
	Orders []Order     `json:"orders"`
	Items  []ItemSales `json:"items"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// NewPagination builds page metadata for total rows split by limit.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{TotalItems: total, TotalPages: pages, CurrentPage: page, Limit: limit}
}
