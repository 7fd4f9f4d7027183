package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"WebCarros/internal/cli/backend"
	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/repo"
	"WebCarros/internal/cli/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CarsCollection — коллекция объявлений.
const CarsCollection = "cars"

// maxParallelUploads — сколько изображений грузится одновременно.
const maxParallelUploads = 4

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// DraftBackend — часть бэкенда, нужная черновику.
type DraftBackend interface {
	backend.BlobStore
	backend.DocStore
}

// SessionReader отдаёт текущую сессию.
type SessionReader interface {
	Current() session.Session
}

// ImageFile — выбранный пользователем файл.
type ImageFile struct {
	Path        string // локальный путь, становится Preview
	ContentType string
	Data        []byte
}

// Draft — черновик нового объявления: изображения и поля формы.
type Draft struct {
	backend  DraftBackend
	repo     repo.DraftRepository
	session  SessionReader
	notifier Notifier
	logger   *zap.SugaredLogger
	now      func() time.Time

	mu      sync.Mutex
	pending int
}

func NewDraft(be DraftBackend, r repo.DraftRepository, s SessionReader, n Notifier, logger *zap.SugaredLogger) *Draft {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Draft{backend: be, repo: r, session: s, notifier: n, logger: logger, now: time.Now}
}

// Pending — число загрузок в процессе.
func (d *Draft) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Draft) addPending(delta int) {
	d.mu.Lock()
	d.pending += delta
	d.mu.Unlock()
}

// Upload загружает одно изображение и добавляет его в черновик.
func (d *Draft) Upload(ctx context.Context, f ImageFile) (model.ImageDescriptor, error) {
	// загрузка считается начатой с вызова, до резервирования seq
	d.addPending(1)
	defer d.addPending(-1)

	if err := d.precheck(f); err != nil {
		return model.ImageDescriptor{}, err
	}
	seq, err := d.repo.NextSeq(1)
	if err != nil {
		return model.ImageDescriptor{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return d.upload(ctx, f, seq)
}

// UploadAll загружает файлы параллельно. Ошибка одного файла не прерывает остальные.
// Оба результата выровнены по files: для неудачных файлов descriptor пустой, для удачных ошибка nil.
// Порядок в черновике совпадает с порядком files.
func (d *Draft) UploadAll(ctx context.Context, files []ImageFile) ([]model.ImageDescriptor, []error) {
	descs := make([]model.ImageDescriptor, len(files))
	errs := make([]error, len(files))
	if len(files) == 0 {
		return descs, errs
	}

	d.addPending(len(files))
	first, err := d.repo.NextSeq(len(files))
	if err != nil {
		d.addPending(-len(files))
		for i := range errs {
			errs[i] = fmt.Errorf("%w: %w", ErrUpload, err)
		}
		return descs, errs
	}

	var g errgroup.Group
	g.SetLimit(maxParallelUploads)
	for i, f := range files {
		g.Go(func() error {
			defer d.addPending(-1)
			if err := d.precheck(f); err != nil {
				errs[i] = err
				return nil
			}
			descs[i], errs[i] = d.upload(ctx, f, first+int64(i))
			return nil
		})
	}
	_ = g.Wait()
	return descs, errs
}

// precheck отсекает неподходящий файл до обращения к сети.
func (d *Draft) precheck(f ImageFile) error {
	if !allowedImageTypes[f.ContentType] {
		d.notifier.Error(MsgUnsupported)
		return fmt.Errorf("%w: %w: %q", ErrUpload, ErrUnsupportedImage, f.ContentType)
	}
	if d.ownerUID() == "" {
		d.logger.Warnw("upload skipped: user is not authenticated", "file", f.Path)
		return fmt.Errorf("%w: %w", ErrUpload, ErrNotAuthenticated)
	}
	return nil
}

func (d *Draft) ownerUID() string {
	cur := d.session.Current()
	if cur.Identity == nil {
		return ""
	}
	return cur.Identity.UID
}

// upload выполняет загрузку; счётчик pending ведут вызывающие.
func (d *Draft) upload(ctx context.Context, f ImageFile, seq int64) (model.ImageDescriptor, error) {
	owner := d.ownerUID()
	if owner == "" {
		return model.ImageDescriptor{}, fmt.Errorf("%w: %w", ErrUpload, ErrNotAuthenticated)
	}
	localID := uuid.NewString()
	path := model.StoragePathFor(owner, localID)

	ref, err := d.backend.BlobWrite(ctx, path, f.Data, f.ContentType)
	if err != nil {
		return model.ImageDescriptor{}, d.uploadFailed(f, path, err)
	}
	u, err := d.backend.BlobReadURL(ctx, ref)
	if err != nil {
		return model.ImageDescriptor{}, d.uploadFailed(f, path, err)
	}

	img := model.ImageDescriptor{
		OwnerUID:    owner,
		LocalID:     localID,
		Preview:     f.Path,
		RemoteURL:   u,
		StoragePath: path,
		Seq:         seq,
	}
	if err := d.repo.SaveImage(img); err != nil {
		// объект уже в хранилище, но в черновик не попал
		if derr := d.backend.BlobDelete(ctx, path); derr != nil {
			d.logger.Warnw("failed to remove orphaned image", "path", path, "error", derr)
		}
		return model.ImageDescriptor{}, d.uploadFailed(f, path, err)
	}
	d.logger.Debugw("image uploaded", "path", path, "seq", seq)
	d.notifier.Success(MsgImageUploaded)
	return img, nil
}

func (d *Draft) uploadFailed(f ImageFile, path string, err error) error {
	d.logger.Errorw("image upload failed", "file", f.Path, "path", path, "error", err)
	d.notifier.Error(MsgUploadFailed)
	return fmt.Errorf("%w: %w", ErrUpload, err)
}

// Delete удаляет объект из хранилища, затем убирает изображение из черновика по RemoteURL.
// Если изображения в черновике нет, список не меняется, но удаление в хранилище всё равно выполняется.
func (d *Draft) Delete(ctx context.Context, img model.ImageDescriptor) error {
	if err := d.backend.BlobDelete(ctx, img.StoragePath); err != nil {
		d.logger.Errorw("image delete failed", "path", img.StoragePath, "error", err)
		d.notifier.Error(MsgDeleteFailed)
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}
	removed, err := d.repo.DeleteImageByURL(img.RemoteURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}
	d.logger.Debugw("image deleted", "path", img.StoragePath, "removed_from_draft", removed)
	return nil
}

// Images возвращает изображения черновика в порядке выбора.
func (d *Draft) Images() ([]model.ImageDescriptor, error) {
	imgs, err := d.repo.ListImages()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(imgs, func(i, j int) bool { return imgs[i].Seq < imgs[j].Seq })
	return imgs, nil
}

// Fields возвращает сохранённые поля формы.
func (d *Draft) Fields() (model.ListingForm, error) {
	return d.repo.LoadFields()
}

// SaveFields запоминает поля формы.
func (d *Draft) SaveFields(f model.ListingForm) error {
	return d.repo.SaveFields(f)
}

// Submit сохраняет объявление одним документом. Поля формы должны быть уже проверены.
// Если документ создан, но черновик не очищен, возвращается id вместе с ErrDraftNotCleared.
func (d *Draft) Submit(ctx context.Context, form model.ListingForm) (string, error) {
	if d.Pending() > 0 {
		return "", fmt.Errorf("%w: %w", ErrSubmit, ErrUploadPending)
	}

	imgs, err := d.Images()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	if len(imgs) == 0 {
		d.notifier.Error(MsgNoImages)
		return "", fmt.Errorf("%w: %w", ErrSubmit, ErrNoImages)
	}

	cur := d.session.Current()
	if cur.Identity == nil {
		return "", fmt.Errorf("%w: %w", ErrSubmit, ErrNotAuthenticated)
	}

	listing := d.buildListing(form, imgs, cur.Identity)
	id, err := d.backend.DocCreate(ctx, CarsCollection, listing)
	if err != nil {
		d.logger.Errorw("listing submit failed", "uid", listing.UID, "error", err)
		d.notifier.Error(MsgListingFailed)
		return "", fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	d.notifier.Success(MsgListingCreated)
	if err := d.repo.Clear(); err != nil {
		// объявление уже создано, черновик остался
		d.logger.Errorw("failed to clear draft after submit", "listing_id", id, "error", err)
		d.notifier.Error(MsgDraftNotCleared)
		return id, fmt.Errorf("%w: %w", ErrDraftNotCleared, err)
	}
	return id, nil
}

func (d *Draft) buildListing(form model.ListingForm, imgs []model.ImageDescriptor, owner *session.Identity) model.Listing {
	images := make([]model.ListingImage, 0, len(imgs))
	for _, img := range imgs {
		images = append(images, model.ListingImage{UID: img.OwnerUID, Name: img.LocalID, URL: img.RemoteURL})
	}
	var ownerName string
	if owner.Name != nil {
		ownerName = *owner.Name
	}
	return model.Listing{
		Name:        strings.ToUpper(form.Name),
		Model:       form.Model,
		Year:        form.Year,
		Km:          form.Km,
		Price:       form.Price,
		City:        form.City,
		Whatsapp:    form.Whatsapp,
		Description: form.Description,
		Created:     d.now().UTC().Format(time.RFC3339),
		Owner:       ownerName,
		UID:         owner.UID,
		Images:      images,
	}
}
