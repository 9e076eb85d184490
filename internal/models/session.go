package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Session — разрешённая сессия вызывающего: id пользователя и роль из профиля.
// Передаётся в контроллеры и мутирующие операции явно.
type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.UserID != "" && s.Role == RoleAdmin
}

func (s Session) IsAnonymous() bool {
	return s.UserID == ""
}
