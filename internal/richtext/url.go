package richtext

import (
	"net/url"
	"strings"
)

type URLKind int

const (
	LinkURL URLKind = iota
	ImageURL
)

// NormalizeURL проверяет href/src и возвращает его нормализованную форму.
// Разрешены относительные адреса, http(s) и mailto (только для ссылок).
// Нормализация совпадает с bluemonday: url.Parse + String.
func NormalizeURL(raw string, kind URLKind) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\n\r") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "":
	case "http", "https":
	case "mailto":
		if kind != LinkURL {
			return "", false
		}
	default:
		return "", false
	}
	out := u.String()
	if out == "" {
		return "", false
	}
	return out, true
}
