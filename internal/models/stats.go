package models

// NewsStats — сводка для админки: всего новостей и разбивка по тегам.
type NewsStats struct {
	Total     int         `json:"total"`
	WithCover int         `json:"with_cover"`
	ByTag     map[Tag]int `json:"by_tag"`
	ByTagPct  map[Tag]int `json:"by_tag_pct"`
}

// FillPercentages считает доли тегов в процентах (с округлением вниз).
func (s *NewsStats) FillPercentages() {
	s.ByTagPct = make(map[Tag]int, len(tagCatalog))
	for _, ti := range tagCatalog {
		if s.Total == 0 {
			s.ByTagPct[ti.Key] = 0
			continue
		}
		s.ByTagPct[ti.Key] = s.ByTag[ti.Key] * 100 / s.Total
	}
}
