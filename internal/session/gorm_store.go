package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Record is a server-side session row. The cookie only carries its ID.
type Record struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	UserID     string    `gorm:"type:varchar(64);not null;index:ix_storefront_sessions_user_id"`
	CreatedAt  time.Time `gorm:"not null"`
	LastSeenAt time.Time `gorm:"not null"`
}

func (Record) TableName() string { return "storefront_sessions" }

// touchEvery limits last_seen_at writes to one per interval per session.
const touchEvery = time.Minute

// GormStore keeps session rows in a SQL database.
type GormStore struct {
	db   *gorm.DB
	opts CookieOptions
	log  *slog.Logger
	now  func() time.Time
}

func NewGormStore(db *gorm.DB, opts CookieOptions, logger *slog.Logger) *GormStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormStore{db: db, opts: opts, log: logger, now: time.Now}
}

func (s *GormStore) Load(r *http.Request) (string, bool) {
	c, err := r.Cookie(s.opts.name())
	if err != nil || c.Value == "" {
		return "", false
	}

	var rec Record
	err = s.db.WithContext(r.Context()).First(&rec, "id = ?", c.Value).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.LogAttrs(r.Context(), slog.LevelError, "session_load_failed", slog.Any("err", err))
		}
		return "", false
	}

	if now := s.now(); now.Sub(rec.LastSeenAt) > touchEvery {
		if err := s.db.WithContext(r.Context()).Model(&rec).Update("last_seen_at", now).Error; err != nil {
			s.log.LogAttrs(r.Context(), slog.LevelWarn, "session_touch_failed", slog.Any("err", err))
		}
	}
	return rec.UserID, rec.UserID != ""
}

func (s *GormStore) Save(w http.ResponseWriter, r *http.Request, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	// Replace, never reuse, the row a previous login left behind.
	if c, err := r.Cookie(s.opts.name()); err == nil && c.Value != "" {
		_ = s.db.WithContext(r.Context()).Delete(&Record{}, "id = ?", c.Value).Error
	}

	now := s.now()
	rec := Record{ID: uuid.NewString(), UserID: userID, CreatedAt: now, LastSeenAt: now}
	if err := s.db.WithContext(r.Context()).Create(&rec).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(rec.ID, int(s.opts.MaxAge.Seconds())))
	return nil
}

func (s *GormStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.cookie("", -1))
	c, err := r.Cookie(s.opts.name())
	if err != nil || c.Value == "" {
		return nil
	}
	if err := s.db.WithContext(r.Context()).Delete(&Record{}, "id = ?", c.Value).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// OpenMySQL opens a gorm handle for dsn, forcing parseTime so DATETIME
// columns scan into time.Time.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	db, err := gorm.Open(gormmysql.Open(cfg.FormatDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}
