// Package memory — реализация backend.Backend в памяти процесса.
// Считает вызовы и умеет подменять ошибки отдельных операций.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"WebCarros/internal/cli/backend"

	"github.com/google/uuid"
)

// Operation names used by Fail and Calls.
const (
	OpSignIn        = "SignIn"
	OpSignUp        = "SignUp"
	OpUpdateProfile = "UpdateProfile"
	OpSignOut       = "SignOut"
	OpBlobWrite     = "BlobWrite"
	OpBlobReadURL   = "BlobReadURL"
	OpBlobDelete    = "BlobDelete"
	OpDocCreate     = "DocCreate"
	OpDocGet        = "DocGet"
)

type account struct {
	principal backend.Principal
	password  string
}

type blob struct {
	data        []byte
	contentType string
}

// Backend хранит пользователей, объекты и документы в map.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]*account // по email
	current  *backend.Principal
	blobs    map[string]blob
	docs     map[string]map[string][]byte
	subs     map[int]func(*backend.Principal)
	nextSub  int
	calls    map[string]int
	failures map[string]error
	gen      uint64 // растёт при каждом Emit
	// deliverMu упорядочивает доставку начального снимка и Emit
	deliverMu sync.Mutex
	// BlobHook, если задан, вызывается в начале BlobWrite вне блокировки.
	BlobHook func(path string)
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		accounts: make(map[string]*account),
		blobs:    make(map[string]blob),
		docs:     make(map[string]map[string][]byte),
		subs:     make(map[int]func(*backend.Principal)),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// AddUser заводит аккаунт без уведомления подписчиков.
func (b *Backend) AddUser(email, password, displayName string) backend.Principal {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(email)
	p := backend.Principal{UID: uuid.NewString(), Email: key, DisplayName: displayName}
	b.accounts[key] = &account{principal: p, password: password}
	return p
}

// Fail заставляет операцию op возвращать err; nil снимает подмену.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Calls — сколько раз вызывалась операция op.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls — сумма вызовов всех операций.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// Subscribers — число активных подписок на изменения пользователя.
func (b *Backend) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// HasBlob сообщает, есть ли объект по пути.
func (b *Backend) HasBlob(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blobs[path]
	return ok
}

// Docs возвращает документы коллекции (id → JSON).
func (b *Backend) Docs(collection string) map[string][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string][]byte, len(b.docs[collection]))
	for id, d := range b.docs[collection] {
		out[id] = d
	}
	return out
}

// Emit рассылает p подписчикам, как это делает сервис при смене пользователя.
func (b *Backend) Emit(p *backend.Principal) {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()
	b.mu.Lock()
	b.gen++
	fns := make([]func(*backend.Principal), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		if p == nil {
			fn(nil)
			continue
		}
		cp := *p
		fn(&cp)
	}
}

// begin учитывает вызов и возвращает подменённую ошибку. Вызывается под b.mu.
func (b *Backend) begin(op string) error {
	b.calls[op]++
	return b.failures[op]
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	b.mu.Lock()
	if err := b.begin(OpSignIn); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	acc, ok := b.accounts[strings.ToLower(email)]
	if !ok || acc.password != password {
		b.mu.Unlock()
		return nil, errors.New("invalid email or password")
	}
	p := acc.principal
	b.current = &p
	b.mu.Unlock()

	b.Emit(&p)
	return &p, nil
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (*backend.Principal, error) {
	b.mu.Lock()
	if err := b.begin(OpSignUp); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	key := strings.ToLower(email)
	if _, ok := b.accounts[key]; ok {
		b.mu.Unlock()
		return nil, errors.New("email already in use")
	}
	p := backend.Principal{UID: uuid.NewString(), Email: key}
	b.accounts[key] = &account{principal: p, password: password}
	b.current = &p
	b.mu.Unlock()

	b.Emit(&p)
	return &p, nil
}

func (b *Backend) UpdateProfile(ctx context.Context, p *backend.Principal, profile backend.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin(OpUpdateProfile); err != nil {
		return err
	}
	if p == nil {
		return errors.New("no principal")
	}
	acc, ok := b.accounts[strings.ToLower(p.Email)]
	if !ok {
		return errors.New("user not found")
	}
	acc.principal.DisplayName = profile.DisplayName
	p.DisplayName = profile.DisplayName
	return nil
}

func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	if err := b.begin(OpSignOut); err != nil {
		b.mu.Unlock()
		return err
	}
	b.current = nil
	b.mu.Unlock()

	b.Emit(nil)
	return nil
}

// OnIdentityChange сразу сообщает текущего пользователя (асинхронно), как сервис идентификации.
// Снимок не доставляется, если его уже опередило событие Emit.
func (b *Backend) OnIdentityChange(fn func(*backend.Principal)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	var cur *backend.Principal
	if b.current != nil {
		cp := *b.current
		cur = &cp
	}
	startGen := b.gen
	b.mu.Unlock()

	go func() {
		b.deliverMu.Lock()
		defer b.deliverMu.Unlock()
		b.mu.Lock()
		_, active := b.subs[id]
		stale := b.gen != startGen
		b.mu.Unlock()
		// снимок устарел, если после подписки уже было событие
		if active && !stale {
			fn(cur)
		}
	}()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Backend) BlobWrite(ctx context.Context, path string, data []byte, contentType string) (backend.BlobRef, error) {
	if b.BlobHook != nil {
		b.BlobHook(path)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin(OpBlobWrite); err != nil {
		return backend.BlobRef{}, err
	}
	if err := ctx.Err(); err != nil {
		return backend.BlobRef{}, err
	}
	b.blobs[path] = blob{data: append([]byte(nil), data...), contentType: contentType}
	return backend.BlobRef{Path: path}, nil
}

func (b *Backend) BlobReadURL(ctx context.Context, ref backend.BlobRef) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin(OpBlobReadURL); err != nil {
		return "", err
	}
	if _, ok := b.blobs[ref.Path]; !ok {
		return "", backend.ErrNotFound
	}
	return "mem://files/" + ref.Path, nil
}

func (b *Backend) BlobDelete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin(OpBlobDelete); err != nil {
		return err
	}
	if _, ok := b.blobs[path]; !ok {
		return backend.ErrNotFound
	}
	delete(b.blobs, path)
	return nil
}

func (b *Backend) DocCreate(ctx context.Context, collection string, record any) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin(OpDocCreate); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if b.docs[collection] == nil {
		b.docs[collection] = make(map[string][]byte)
	}
	b.docs[collection][id] = raw
	return id, nil
}

func (b *Backend) DocGet(ctx context.Context, collection, id string, out any) error {
	b.mu.Lock()
	if err := b.begin(OpDocGet); err != nil {
		b.mu.Unlock()
		return err
	}
	raw, ok := b.docs[collection][id]
	b.mu.Unlock()
	if !ok {
		return backend.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}
