// Package apperr описывает таксономию ошибок контент-пайплайна:
// валидация, авторизация, «не найдено» и ошибки соединения с бэкендом.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindNotFound
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Error — типизированная ошибка. Op — операция, где она возникла (например "content.Create").
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func Authorization(op, msg string) error {
	return &Error{Kind: KindAuthorization, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// Connection оборачивает транспортную ошибку (в т.ч. таймаут).
func Connection(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Msg: "backend unavailable", Err: err}
}

// KindOf возвращает тип ошибки; 0 — если ошибка не из этой таксономии.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }

// IsConnection также считает ошибкой соединения истёкший дедлайн.
func IsConnection(err error) bool {
	return KindOf(err) == KindConnection || errors.Is(err, context.DeadlineExceeded)
}

// Message — текст для пользователя без внутренних подробностей.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindConnection {
			return "сервис временно недоступен, попробуйте ещё раз"
		}
		if e.Msg != "" {
			return e.Msg
		}
	}
	return "внутренняя ошибка"
}
