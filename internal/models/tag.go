package models

type Tag string

const (
	TagUpdate       Tag = "update"
	TagPatch        Tag = "patch"
	TagEvent        Tag = "event"
	TagAnnouncement Tag = "announcement"
	TagCommunity    Tag = "community"
)

type TagInfo struct {
	Key   Tag    `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var tagCatalog = []TagInfo{
	{Key: TagUpdate, Label: "Update", Color: "#3b82f6"},
	{Key: TagPatch, Label: "Patch", Color: "#8b5cf6"},
	{Key: TagEvent, Label: "Event", Color: "#f59e0b"},
	{Key: TagAnnouncement, Label: "Announcement", Color: "#ef4444"},
	{Key: TagCommunity, Label: "Community", Color: "#10b981"},
}

// Tags возвращает каталог тегов в порядке отображения.
func Tags() []TagInfo {
	out := make([]TagInfo, len(tagCatalog))
	copy(out, tagCatalog)
	return out
}

func (t Tag) Info() (TagInfo, bool) {
	for _, ti := range tagCatalog {
		if ti.Key == t {
			return ti, true
		}
	}
	return TagInfo{}, false
}

func (t Tag) Valid() bool {
	_, ok := t.Info()
	return ok
}

// ParseTag разбирает тег из строки запроса; пустая строка — «без фильтра».
func ParseTag(s string) (*Tag, bool) {
	if s == "" {
		return nil, true
	}
	t := Tag(s)
	if !t.Valid() {
		return nil, false
	}
	return &t, true
}
