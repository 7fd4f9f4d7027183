// Package api — HTTP-клиент сервера WebCarros, реализующий backend.Backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"WebCarros/internal/cli/backend"
	"WebCarros/internal/cli/repo"

	"go.uber.org/zap"
)

// AuthCookieName — имя cookie с токеном авторизации.
const AuthCookieName = "auth_token"

// StatusError — неожиданный ответ сервера.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server status %d", e.Code)
	}
	return fmt.Sprintf("server status %d: %s", e.Code, e.Body)
}

// Is позволяет сравнивать 404 с backend.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == backend.ErrNotFound && e.Code == http.StatusNotFound
}

// Client ходит на сервер по HTTP и хранит токен в TokenStore.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  repo.TokenStore
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	subs    map[int]func(*backend.Principal)
	nextSub int
	gen     uint64 // растёт при каждом уведомлении о входе/выходе

	// deliverMu упорядочивает доставку: начальный снимок не обгоняет более новое уведомление
	deliverMu sync.Mutex
}

var _ backend.Backend = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, tokens repo.TokenStore, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
		subs:    make(map[int]func(*backend.Principal)),
	}
}

// do отправляет запрос; если токен сохранён, он передаётся как auth cookie.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok, err := c.tokens.Load(); err == nil {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tok})
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, b, nil
}

// postJSON sends a JSON POST request.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json")
}

func statusError(resp *http.Response, body []byte) error {
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его в store.
func PersistAuthFromResponse(resp *http.Response, store repo.TokenStore) error {
	for _, c := range resp.Cookies() {
		if c.Name == AuthCookieName && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return errors.New("no auth cookie in response")
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*backend.Principal, error) {
	resp, body, err := c.postJSON(ctx, path, map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, body)
	}
	if err := PersistAuthFromResponse(resp, c.tokens); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}
	var p backend.Principal
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode principal: %w", err)
	}
	c.notify(&p)
	return &p, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	return c.authenticate(ctx, "/api/user/login", email, password)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.Principal, error) {
	return c.authenticate(ctx, "/api/user/register", email, password)
}

func (c *Client) UpdateProfile(ctx context.Context, p *backend.Principal, profile backend.Profile) error {
	resp, body, err := c.postJSON(ctx, "/api/user/profile", profile)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	if p != nil {
		p.DisplayName = profile.DisplayName
	}
	return nil
}

// SignOut завершает сессию на сервере и удаляет локальный токен.
func (c *Client) SignOut(ctx context.Context) error {
	resp, body, err := c.postJSON(ctx, "/api/user/logout", struct{}{})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	if err := c.tokens.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	c.notify(nil)
	return nil
}

// Me возвращает текущего пользователя; nil без ошибки — аноним.
func (c *Client) Me(ctx context.Context) (*backend.Principal, error) {
	if _, err := c.tokens.Load(); errors.Is(err, repo.ErrNoToken) {
		return nil, nil
	}
	resp, body, err := c.do(ctx, http.MethodGet, "/api/user/me", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, body)
	}
	var p backend.Principal
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode principal: %w", err)
	}
	return &p, nil
}

// OnIdentityChange подписывает fn на смену пользователя. Первое уведомление
// приходит асинхронно после запроса /api/user/me, дальше — после входа, регистрации и выхода.
// Если до ответа /me уже был вход или выход, устаревший снимок не доставляется.
func (c *Client) OnIdentityChange(fn func(*backend.Principal)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	startGen := c.gen
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout+time.Second)
		defer cancel()
		p, err := c.Me(ctx)
		if err != nil {
			c.logger.Warnw("identity lookup failed, treating session as anonymous", "error", err)
			p = nil
		}

		c.deliverMu.Lock()
		defer c.deliverMu.Unlock()
		c.mu.Lock()
		_, active := c.subs[id]
		stale := c.gen != startGen
		c.mu.Unlock()
		if !active {
			return
		}
		if stale {
			c.logger.Debugw("identity snapshot superseded by a newer event, dropped")
			return
		}
		fn(p)
	}()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) notify(p *backend.Principal) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	c.mu.Lock()
	c.gen++
	fns := make([]func(*backend.Principal), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		if p == nil {
			fn(nil)
			continue
		}
		cp := *p
		fn(&cp)
	}
}

// BlobWrite загружает объект multipart-запросом.
func (c *Client) BlobWrite(ctx context.Context, path string, data []byte, contentType string) (backend.BlobRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("path", path); err != nil {
		return backend.BlobRef{}, err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="blob"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return backend.BlobRef{}, err
	}
	if _, err := part.Write(data); err != nil {
		return backend.BlobRef{}, err
	}
	if err := mw.Close(); err != nil {
		return backend.BlobRef{}, err
	}

	resp, body, err := c.do(ctx, http.MethodPost, "/api/blobs/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return backend.BlobRef{}, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return backend.BlobRef{}, statusError(resp, body)
	}
	return backend.BlobRef{Path: path}, nil
}

func (c *Client) BlobReadURL(ctx context.Context, ref backend.BlobRef) (string, error) {
	resp, body, err := c.postJSON(ctx, "/api/blobs/url", map[string]string{"path": ref.Path})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, body)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode url: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("empty download url")
	}
	return out.URL, nil
}

func (c *Client) BlobDelete(ctx context.Context, path string) error {
	resp, body, err := c.do(ctx, http.MethodDelete, "/api/blobs?path="+url.QueryEscape(path), nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	return nil
}

func (c *Client) DocCreate(ctx context.Context, collection string, record any) (string, error) {
	resp, body, err := c.postJSON(ctx, "/api/docs/"+url.PathEscape(collection), record)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", statusError(resp, body)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode document id: %w", err)
	}
	return out.ID, nil
}

func (c *Client) DocGet(ctx context.Context, collection, id string, out any) error {
	resp, body, err := c.do(ctx, http.MethodGet, "/api/docs/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	var doc struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return json.Unmarshal(doc.Data, out)
}
