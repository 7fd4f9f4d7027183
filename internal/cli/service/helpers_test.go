package service

import (
	"errors"
	"sort"
	"sync"

	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/repo"
)

// memDraftRepo — черновик в памяти для тестов.
type memDraftRepo struct {
	mu     sync.Mutex
	images []model.ImageDescriptor
	fields model.ListingForm
	seq    int64
	failOn map[string]error
	// seqHook, если задан, вызывается в начале NextSeq вне блокировки
	seqHook func()
}

var _ repo.DraftRepository = (*memDraftRepo)(nil)

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{failOn: map[string]error{}}
}

func (r *memDraftRepo) SaveImage(img model.ImageDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn["SaveImage"]; err != nil {
		return err
	}
	r.images = append(r.images, img)
	return nil
}

func (r *memDraftRepo) DeleteImageByURL(remoteURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.images[:0]
	removed := false
	for _, img := range r.images {
		if img.RemoteURL == remoteURL {
			removed = true
			continue
		}
		kept = append(kept, img)
	}
	r.images = kept
	return removed, nil
}

func (r *memDraftRepo) ListImages() ([]model.ImageDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.ImageDescriptor(nil), r.images...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *memDraftRepo) NextSeq(n int) (int64, error) {
	if r.seqHook != nil {
		r.seqHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return 0, errors.New("n must be positive")
	}
	first := r.seq
	r.seq += int64(n)
	return first, nil
}

func (r *memDraftRepo) SaveFields(f model.ListingForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = f
	return nil
}

func (r *memDraftRepo) LoadFields() (model.ListingForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fields, nil
}

func (r *memDraftRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn["Clear"]; err != nil {
		return err
	}
	r.images = nil
	r.fields = model.ListingForm{}
	return nil
}

// recNotifier запоминает уведомления.
type recNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *recNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *recNotifier) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failures...)
}

func (n *recNotifier) successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.success...)
}

// memRoleStore — роли в памяти.
type memRoleStore struct {
	mu    sync.Mutex
	roles map[string]string
}

func (s *memRoleStore) SaveRole(uid, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles == nil {
		s.roles = map[string]string{}
	}
	s.roles[uid] = role
	return nil
}

func (s *memRoleStore) LoadRole(uid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[uid], nil
}
