// Package stats persists per-player weapon statistics. The game loop counts
// into a Recorder every tick; the Recorder is flushed into a Store on an
// interval and when the server stops.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// WeaponStat is the running total of one player's use of one weapon type.
type WeaponStat struct {
	ID        uint   `gorm:"primaryKey"`
	Player    string `gorm:"uniqueIndex:idx_player_weapon;size:64"`
	Weapon    string `gorm:"uniqueIndex:idx_player_weapon;size:32"`
	Shots     int
	Hits      int
	Reloads   int
	Kills     int
	UpdatedAt time.Time
}

// Store is a SQLite database of WeaponStat rows.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path. An empty path opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("stats db handle: %w", err)
	}
	// an in-memory database exists per connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&WeaponStat{}); err != nil {
		return nil, fmt.Errorf("migrate stats db: %w", err)
	}
	return &Store{db: db}, nil
}

// Add adds each delta to the stored totals in one transaction.
func (s *Store) Add(ctx context.Context, deltas []WeaponStat) error {
	if len(deltas) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			row := WeaponStat{
				Player:  d.Player,
				Weapon:  d.Weapon,
				Shots:   d.Shots,
				Hits:    d.Hits,
				Reloads: d.Reloads,
				Kills:   d.Kills,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "player"}, {Name: "weapon"}},
				DoUpdates: clause.Assignments(map[string]any{
					"shots":      gorm.Expr("shots + ?", d.Shots),
					"hits":       gorm.Expr("hits + ?", d.Hits),
					"reloads":    gorm.Expr("reloads + ?", d.Reloads),
					"kills":      gorm.Expr("kills + ?", d.Kills),
					"updated_at": time.Now(),
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("upsert %s/%s: %w", d.Player, d.Weapon, err)
			}
		}
		return nil
	})
}

// ForPlayer returns a player's rows ordered by weapon.
func (s *Store) ForPlayer(ctx context.Context, player string) ([]WeaponStat, error) {
	var out []WeaponStat
	err := s.db.WithContext(ctx).Where("player = ?", player).Order("weapon").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load stats for %s: %w", player, err)
	}
	return out, nil
}

// Leaders returns the players with the most kills with weapon.
func (s *Store) Leaders(ctx context.Context, weapon string, limit int) ([]WeaponStat, error) {
	var out []WeaponStat
	err := s.db.WithContext(ctx).
		Where("weapon = ?", weapon).
		Order("kills desc, player").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load leaders for %s: %w", weapon, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
