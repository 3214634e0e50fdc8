package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cleancloak-bot/internal/booking"
	"cleancloak-bot/internal/config"
	"cleancloak-bot/pkg/redis"
)

// PostgresStorage mirrors accepted bookings for the admin surface. The
// backend remains the system of record.
type PostgresStorage struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

type Booking struct {
	ID              int64     `db:"id"`
	ChatID          int64     `db:"chat_id"`
	Reference       string    `db:"reference"`
	ServiceCategory string    `db:"service_category"`
	Summary         string    `db:"summary"`
	TotalPrice      int       `db:"total_price"`
	CreatedAt       time.Time `db:"created_at"`
}

const recentCacheKey = "recent_bookings"

func NewPostgresStorage(ctx context.Context, cfg config.DatabaseConfig, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}, nil
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// SaveBooking implements booking.Store.
func (s *PostgresStorage) SaveBooking(ctx context.Context, rec booking.Receipt) error {
	const query = `
        INSERT INTO bookings (
            chat_id, reference, service_category, summary, total_price, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := s.db.ExecContext(ctx, query,
		rec.ChatID,
		rec.Reference,
		string(rec.ServiceCategory),
		rec.Summary,
		rec.Total,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	s.redis.Del(ctx, recentCacheKey)

	return nil
}

// RecentBookings returns the latest mirrored bookings, newest first. The
// list is cached briefly since admins poll it.
func (s *PostgresStorage) RecentBookings(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 10
	}

	cached, err := s.redis.Get(ctx, recentCacheKey)
	if err == nil {
		var bookings []Booking
		if err := json.Unmarshal(cached, &bookings); err == nil && len(bookings) >= limit {
			return bookings[:limit], nil
		}
	}

	const query = `
        SELECT id, chat_id, reference, service_category, summary, total_price, created_at
        FROM bookings
        ORDER BY created_at DESC
        LIMIT $1
    `

	var bookings []Booking
	if err := s.db.SelectContext(ctx, &bookings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	if data, err := json.Marshal(bookings); err == nil {
		s.redis.Set(ctx, recentCacheKey, data, 5*time.Minute)
	}

	return bookings, nil
}

// ExportBookingToExcel writes a one-booking report and returns its path.
func (s *PostgresStorage) ExportBookingToExcel(ctx context.Context, rec booking.Receipt) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Booking")
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	f.SetCellValue("Booking", "A1", "Reference")
	f.SetCellValue("Booking", "B1", rec.Reference)
	f.SetCellValue("Booking", "A2", "Service")
	f.SetCellValue("Booking", "B2", rec.Summary)
	f.SetCellValue("Booking", "A3", "Category")
	f.SetCellValue("Booking", "B3", string(rec.ServiceCategory))
	f.SetCellValue("Booking", "A4", "Total (KES)")
	f.SetCellValue("Booking", "B4", rec.Total)
	f.SetCellValue("Booking", "A5", "Created At")
	f.SetCellValue("Booking", "B5", rec.CreatedAt.Format("2006-01-02 15:04"))

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle("Booking", "A1", "A5", style)

	f.SetActiveSheet(index)

	filename := fmt.Sprintf("booking_%s_%s.xlsx",
		rec.Reference,
		rec.CreatedAt.Format("20060102_1504"))
	filepath := fmt.Sprintf("reports/%s", filename)

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}

// ExportAllBookingsToExcel dumps the whole mirror table into one sheet.
func (s *PostgresStorage) ExportAllBookingsToExcel(ctx context.Context, filepath string) error {
	const query = `
        SELECT id, chat_id, reference, service_category, summary, total_price, created_at
        FROM bookings
        ORDER BY created_at DESC
    `
	var bookings []Booking
	if err := s.db.SelectContext(ctx, &bookings, query); err != nil {
		return fmt.Errorf("failed to fetch bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Bookings")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Chat ID", "Reference", "Category", "Summary", "Total (KES)", "Created At",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Bookings", cell, header)
	}

	for row, b := range bookings {
		data := []interface{}{
			b.ID,
			b.ChatID,
			b.Reference,
			b.ServiceCategory,
			b.Summary,
			b.TotalPrice,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Bookings", cell, value)
		}
	}

	f.SetActiveSheet(index)

	if err := f.SaveAs(filepath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	s.logger.Info("Exported bookings to Excel",
		zap.Int("count", len(bookings)),
		zap.String("file", filepath))
	return nil
}
