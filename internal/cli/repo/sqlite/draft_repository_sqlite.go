package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// DraftRepositorySQLite — черновик объявления в локальной БД SQLite пользователя.
type DraftRepositorySQLite struct {
	db  *sql.DB
	uid string
}

var _ repo.DraftRepository = (*DraftRepositorySQLite)(nil)

var uidRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// OpenForUser открывает (и создаёт при необходимости) файл БД для указанного uid
// в каталоге base и возвращает репозиторий. Вторым значением возвращается путь к БД.
func OpenForUser(base, uid string) (*DraftRepositorySQLite, string, error) {
	if uid == "" || !uidRe.MatchString(uid) {
		return nil, "", errors.New("invalid uid for user store")
	}
	if base == "" {
		return nil, "", errors.New("client db path is not configured")
	}
	dir := filepath.Join(base, uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "client.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	// SQLite не любит параллельных писателей: одно соединение на файл
	db.SetMaxOpenConns(1)
	return &DraftRepositorySQLite{db: db, uid: uid}, dbPath, nil
}

// Open открывает репозиторий поверх произвольного DSN (например, in-memory в тестах).
func Open(dsn, uid string) (*DraftRepositorySQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &DraftRepositorySQLite{db: db, uid: uid}, nil
}

// Close закрывает соединение с БД.
func (r *DraftRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
// Скрипты идемпотентны, поэтому повторный запуск безопасен.
func (r *DraftRepositorySQLite) Migrate() error {
	ms, err := migrations()
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := r.db.Exec(m.ddl); err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
	}
	return nil
}

func (r *DraftRepositorySQLite) SaveImage(img model.ImageDescriptor) error {
	_, err := r.db.Exec(`INSERT INTO draft_images(
        local_id, owner_uid, preview, remote_url, storage_path, seq
    ) VALUES(?, ?, ?, ?, ?, ?)`,
		img.LocalID, img.OwnerUID, img.Preview, img.RemoteURL, img.StoragePath, img.Seq,
	)
	return err
}

func (r *DraftRepositorySQLite) DeleteImageByURL(remoteURL string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM draft_images WHERE remote_url = ?`, remoteURL)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *DraftRepositorySQLite) ListImages() ([]model.ImageDescriptor, error) {
	rows, err := r.db.Query(`SELECT local_id, owner_uid, preview, remote_url, storage_path, seq
        FROM draft_images ORDER BY seq ASC, local_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.ImageDescriptor
	for rows.Next() {
		var img model.ImageDescriptor
		if err := rows.Scan(&img.LocalID, &img.OwnerUID, &img.Preview, &img.RemoteURL, &img.StoragePath, &img.Seq); err != nil {
			return nil, err
		}
		res = append(res, img)
	}
	return res, rows.Err()
}

// NextSeq — счётчик хранится в draft_meta, чтобы порядок выбора сохранялся между запусками.
func (r *DraftRepositorySQLite) NextSeq(n int) (int64, error) {
	if n <= 0 {
		return 0, errors.New("n must be positive")
	}
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var cur int64
	err = tx.QueryRow(`SELECT value FROM draft_meta WHERE key = 'seq'`).Scan(&cur)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if _, err := tx.Exec(`INSERT INTO draft_meta(key, value) VALUES('seq', ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`, cur+int64(n)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return cur, nil
}

func (r *DraftRepositorySQLite) SaveFields(f model.ListingForm) error {
	_, err := r.db.Exec(`INSERT INTO draft_fields(id, name, model, year, km, price, city, whatsapp, description)
        VALUES(1, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name, model = excluded.model, year = excluded.year, km = excluded.km,
            price = excluded.price, city = excluded.city, whatsapp = excluded.whatsapp,
            description = excluded.description`,
		f.Name, f.Model, f.Year, f.Km, f.Price, f.City, f.Whatsapp, f.Description,
	)
	return err
}

func (r *DraftRepositorySQLite) LoadFields() (model.ListingForm, error) {
	var f model.ListingForm
	err := r.db.QueryRow(`SELECT name, model, year, km, price, city, whatsapp, description
        FROM draft_fields WHERE id = 1`).
		Scan(&f.Name, &f.Model, &f.Year, &f.Km, &f.Price, &f.City, &f.Whatsapp, &f.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListingForm{}, nil
	}
	return f, err
}

// Clear очищает черновик. Счётчик seq не сбрасывается.
func (r *DraftRepositorySQLite) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM draft_images`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM draft_fields`); err != nil {
		return err
	}
	return tx.Commit()
}
