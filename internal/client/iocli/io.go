// Package iocli абстрагирует терминальный ввод/вывод CLI клиента,
// чтобы команды можно было тестировать без реального терминала.
package iocli

//go:generate moq -out io_mock.go . IO

type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
