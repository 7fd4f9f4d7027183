package service

import (
	"fmt"
	"io"
	"sync"
)

// Сообщения пользователю.
const (
	MsgLoginOK         = "Logado com sucesso!"
	MsgLoginFailed     = "Erro ao fazer o login!"
	MsgRegisterOK      = "Cadastrado com sucesso!"
	MsgRegisterFailed  = "Erro ao efetuar cadastro!"
	MsgLogoutFailed    = "Erro ao sair da conta!"
	MsgUnsupported     = "Envie uma imagem jpeg ou png!"
	MsgImageUploaded   = "Imagem cadastrada com sucesso!"
	MsgUploadFailed    = "Erro ao fazer upload da imagem!"
	MsgDeleteFailed    = "Erro ao deletar imagem!"
	MsgNoImages        = "Envie pelo menos uma imagem!"
	MsgListingCreated  = "Cadastrado com sucesso!"
	MsgListingFailed   = "Erro ao cadastrar no banco de dados"
	MsgDraftNotCleared = "Anúncio cadastrado, mas o rascunho não foi limpo!"
	RouteDashboard     = "/dashboard"
)

// Notifier показывает пользователю короткие уведомления.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator переводит пользователя на другой экран.
type Navigator interface {
	Navigate(route string)
}

// WriterNotifier печатает уведомления в writer. Безопасен для параллельных вызовов.
type WriterNotifier struct {
	mu  sync.Mutex
	Out io.Writer
}

func (n *WriterNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.Out, msg)
}

func (n *WriterNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.Out, "Erro:", msg)
}

// RouteRecorder запоминает последний маршрут. В CLI навигации нет, маршрут только фиксируется.
type RouteRecorder struct {
	mu    sync.Mutex
	route string
}

func (r *RouteRecorder) Navigate(route string) {
	r.mu.Lock()
	r.route = route
	r.mu.Unlock()
}

// Route возвращает последний маршрут.
func (r *RouteRecorder) Route() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}
