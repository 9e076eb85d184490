package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator — go-playground validator с именами полей из json-тегов.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describe переводит ошибки валидатора в одно сообщение для пользователя.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: обязательное поле", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: не длиннее %s символов", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: допустимые значения: %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s: некорректный адрес", field))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("%s: некорректный идентификатор", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: не прошло проверку %s", field, fe.Tag()))
		}
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
