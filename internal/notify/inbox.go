package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devlink/client/backend"
	"devlink/internal/config"
)

// pending is a notification waiting for its recipient to connect.
type pending struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"index;not null"`
	Payload   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (pending) TableName() string { return "pending_notifications" }

// ConnectDB opens the inbox database: SQLite at cfg.Database unless
// DB_HOST is set, PostgreSQL otherwise.
func ConnectDB(cfg config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.DBHost == "" {
		log.WithField("path", cfg.Database).Info("Connecting to SQLite database")
		db, err = gorm.Open(sqlite.Open(cfg.Database), &gorm.Config{})
	} else {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		log.WithField("host", cfg.DBHost).Info("Connecting to PostgreSQL database")
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.WithError(err).Error("Failed to connect to the database")
		return nil, err
	}
	log.Info("Database connection successful")
	return db, nil
}

// Inbox stores notifications for users without a live stream.
type Inbox struct {
	db *gorm.DB
}

func NewInbox(db *gorm.DB) (*Inbox, error) {
	if err := db.AutoMigrate(&pending{}); err != nil {
		return nil, fmt.Errorf("migrate inbox: %w", err)
	}
	return &Inbox{db: db}, nil
}

func (i *Inbox) Store(ctx context.Context, n backend.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	row := pending{UserID: n.RecipientID, Payload: string(payload), CreatedAt: time.Now()}
	return i.db.WithContext(ctx).Create(&row).Error
}

// Drain returns the stored notifications for userID, oldest first, and
// removes them.
func (i *Inbox) Drain(ctx context.Context, userID string) ([]backend.Notification, error) {
	var rows []pending
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uint, len(rows))
		for k, r := range rows {
			ids[k] = r.ID
		}
		return tx.Delete(&pending{}, ids).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]backend.Notification, 0, len(rows))
	for _, r := range rows {
		var n backend.Notification
		if err := json.Unmarshal([]byte(r.Payload), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Count returns how many notifications are waiting for userID.
func (i *Inbox) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := i.db.WithContext(ctx).Model(&pending{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
