package editor

// Command — закрытый набор команд тулбара. Реализации перечислены ниже,
// Apply разбирает их одним switch.
type Command interface {
	command()
}

type (
	Bold   struct{}
	Italic struct{}
	Strike struct{}

	// ToggleHeading переключает заголовок уровня 2 или 3.
	ToggleHeading struct{ Level int }

	BulletList     struct{}
	OrderedList    struct{}
	Blockquote     struct{}
	HorizontalRule struct{}

	Image struct {
		Src string
		Alt string
	}

	// SetLink с пустым Href равносилен UnsetLink.
	SetLink   struct{ Href string }
	UnsetLink struct{}

	// InsertText заменяет выделение текстом; "\n" разбивает строку.
	InsertText struct{ Text string }

	// Delete удаляет выделение, при курсоре — символ перед ним.
	Delete struct{}
)

func (Bold) command()           {}
func (Italic) command()         {}
func (Strike) command()         {}
func (ToggleHeading) command()  {}
func (BulletList) command()     {}
func (OrderedList) command()    {}
func (Blockquote) command()     {}
func (HorizontalRule) command() {}
func (Image) command()          {}
func (SetLink) command()        {}
func (UnsetLink) command()      {}
func (InsertText) command()     {}
func (Delete) command()         {}
