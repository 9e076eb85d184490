package models

// Page — одна страница выдачи и общее число статей под фильтром.
type Page struct {
	Items      []*Article `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

func (p *Page) HasMore() bool {
	return p.Page*p.PageSize < p.TotalCount
}
