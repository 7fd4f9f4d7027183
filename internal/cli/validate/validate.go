// Package validate — декларативные схемы проверки полей форм.
package validate

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Rule проверяет значение поля. Возвращает сообщение об ошибке или "".
type Rule func(value string) string

// Field — поле схемы с упорядоченным списком правил.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema — упорядоченный набор полей.
type Schema struct {
	Fields []Field
}

// Error — ошибки проверки: поле → первое сработавшее сообщение.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+": "+e.Fields[n])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message возвращает сообщение для поля или "".
func (e *Error) Message(field string) string {
	return e.Fields[field]
}

// Validate проверяет все поля схемы. nil, если ошибок нет.
func (s Schema) Validate(values map[string]string) *Error {
	var errs map[string]string
	for _, f := range s.Fields {
		if msg := checkField(f, values[f.Name]); msg != "" {
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[f.Name] = msg
		}
	}
	if errs == nil {
		return nil
	}
	return &Error{Fields: errs}
}

// ValidateField проверяет одно поле (живая проверка при вводе).
// Неизвестное поле считается корректным.
func (s Schema) ValidateField(name, value string) string {
	for _, f := range s.Fields {
		if f.Name == name {
			return checkField(f, value)
		}
	}
	return ""
}

func checkField(f Field, value string) string {
	for _, rule := range f.Rules {
		if msg := rule(value); msg != "" {
			return msg
		}
	}
	return ""
}

// Required — значение не пустое.
func Required(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return msg
		}
		return ""
	}
}

// Email — значение похоже на адрес электронной почты.
func Email(msg string) Rule {
	return func(v string) string {
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
			return msg
		}
		return ""
	}
}

// MinLen — не меньше n символов.
func MinLen(n int, msg string) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return msg
		}
		return ""
	}
}

// Match — значение соответствует регулярному выражению.
func Match(re *regexp.Regexp, msg string) Rule {
	return func(v string) string {
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// OneOf — значение из допустимого набора.
func OneOf(allowed []string, msg string) Rule {
	return func(v string) string {
		for _, a := range allowed {
			if v == a {
				return ""
			}
		}
		return msg
	}
}
