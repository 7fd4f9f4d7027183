package commands

import (
	"WebCarros/internal/cli/validate"
	"errors"
	"fmt"
)

// errReported — ошибка уже показана пользователю (уведомлением или сообщениями полей).
var errReported = errors.New("reported")

// reportValidation печатает сообщения полей в порядке схемы.
// Возвращает errReported, если err — ошибка проверки, иначе сам err.
func reportValidation(schema validate.Schema, err error) error {
	var verr *validate.Error
	if !errors.As(err, &verr) {
		return err
	}
	for _, f := range schema.Fields {
		if msg := verr.Message(f.Name); msg != "" {
			fmt.Fprintf(Out, "  %s: %s\n", f.Name, msg)
		}
	}
	return errReported
}
