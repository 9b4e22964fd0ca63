package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

// counterRecord holds the single-row booked-seats counter.
type counterRecord struct {
	ID          int `gorm:"primaryKey"`
	BookedSeats int
}

func (counterRecord) TableName() string {
	return "counters"
}

// GormStore persists the snapshot in Postgres, one table per record type.
// SaveAll rewrites every table in one transaction.
type GormStore struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormStore(dsn string, logger pkgApp.AppLogger) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(
		&domain.RouteRecord{},
		&domain.BookingRecord{},
		&domain.PaymentRecord{},
		&domain.UserRecord{},
		&counterRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate snapshot tables: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	db := s.db.WithContext(ctx)

	if err := db.Order("id").Find(&snapshot.Routes).Error; err != nil {
		return domain.Snapshot{}, fmt.Errorf("load routes: %w", err)
	}
	if err := db.Order("slot").Find(&snapshot.Bookings).Error; err != nil {
		return domain.Snapshot{}, fmt.Errorf("load bookings: %w", err)
	}
	if err := db.Order("id").Find(&snapshot.Payments).Error; err != nil {
		return domain.Snapshot{}, fmt.Errorf("load payments: %w", err)
	}
	if err := db.Order("username").Find(&snapshot.Users).Error; err != nil {
		return domain.Snapshot{}, fmt.Errorf("load users: %w", err)
	}

	var counter counterRecord
	err := db.First(&counter).Error
	switch {
	case err == nil:
		snapshot.BookedSeats = counter.BookedSeats
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Cold start, nothing persisted yet.
	default:
		return domain.Snapshot{}, fmt.Errorf("load counter: %w", err)
	}

	return snapshot, nil
}

func (s *GormStore) SaveAll(ctx context.Context, snapshot domain.Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&domain.RouteRecord{}).Error; err != nil {
			return fmt.Errorf("clear routes: %w", err)
		}
		if err := wipe.Delete(&domain.BookingRecord{}).Error; err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		if err := wipe.Delete(&domain.PaymentRecord{}).Error; err != nil {
			return fmt.Errorf("clear payments: %w", err)
		}
		if err := wipe.Delete(&domain.UserRecord{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := wipe.Delete(&counterRecord{}).Error; err != nil {
			return fmt.Errorf("clear counter: %w", err)
		}

		if len(snapshot.Routes) > 0 {
			if err := tx.Create(&snapshot.Routes).Error; err != nil {
				return fmt.Errorf("save routes: %w", err)
			}
		}
		if len(snapshot.Bookings) > 0 {
			if err := tx.Create(&snapshot.Bookings).Error; err != nil {
				return fmt.Errorf("save bookings: %w", err)
			}
		}
		if len(snapshot.Payments) > 0 {
			if err := tx.Create(&snapshot.Payments).Error; err != nil {
				return fmt.Errorf("save payments: %w", err)
			}
		}
		if len(snapshot.Users) > 0 {
			if err := tx.Create(&snapshot.Users).Error; err != nil {
				return fmt.Errorf("save users: %w", err)
			}
		}
		counter := counterRecord{ID: 1, BookedSeats: snapshot.BookedSeats}
		if err := tx.Create(&counter).Error; err != nil {
			return fmt.Errorf("save counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	pkgApp.LogInfo(ctx, s.logger, "snapshot saved", map[string]interface{}{
		"routes":   len(snapshot.Routes),
		"bookings": len(snapshot.Bookings),
	})
	return nil
}
