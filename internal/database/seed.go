package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type defaultHabit struct {
	Title    string
	Category string
	XPReward int
	Icon     string
	Order    int
}

// defaultHabits is the shared catalog seeded once. Order matters for the
// checklist display.
var defaultHabits = []defaultHabit{
	// Prayer
	{"Fajr Prayer", "prayer", 20, "Sun", 1},
	{"Dhuhr Prayer", "prayer", 20, "Sun", 2},
	{"Asr Prayer", "prayer", 20, "Sun", 3},
	{"Maghrib Prayer", "prayer", 20, "Sunset", 4},
	{"Isha Prayer", "prayer", 20, "Moon", 5},
	{"Taraweeh Prayer", "prayer", 25, "Star", 6},
	{"Tahajjud / Qiyam al-Layl", "prayer", 25, "Moon", 7},
	{"Duha Prayer", "prayer", 15, "Sunrise", 8},
	// Quran
	{"Read 1 Juz", "quran", 30, "BookOpen", 9},
	{"Memorize an Ayah", "quran", 25, "Brain", 10},
	{"Listen to Tafsir", "quran", 20, "Headphones", 11},
	{"Recite with Tajweed", "quran", 20, "BookOpenCheck", 12},
	// Dhikr
	{"Morning Adhkar", "dhikr", 15, "Sunrise", 13},
	{"Evening Adhkar", "dhikr", 15, "Sunset", 14},
	{"100x SubhanAllah", "dhikr", 10, "Heart", 15},
	{"100x Alhamdulillah", "dhikr", 10, "Heart", 16},
	{"100x Istighfar", "dhikr", 10, "Heart", 17},
	{"Send Salawat on the Prophet", "dhikr", 10, "Heart", 18},
	// Charity
	{"Give Daily Sadaqah", "charity", 25, "HandHeart", 19},
	{"Feed Someone Iftar", "charity", 25, "Utensils", 20},
	{"Donate to a Cause", "charity", 20, "CircleDollarSign", 21},
	{"Help a Neighbor", "charity", 20, "Users", 22},
	// Character
	{"No Backbiting", "character", 20, "ShieldCheck", 23},
	{"Smile at Others", "character", 15, "Smile", 24},
	{"Help Someone in Need", "character", 20, "HandHelping", 25},
	{"Practice Patience", "character", 15, "Timer", 26},
	{"Make Dua for Others", "character", 15, "Sparkles", 27},
	// Fasting
	{"Fast the Day", "fasting", 25, "Moon", 28},
	{"Eat Suhoor", "fasting", 20, "Coffee", 29},
	{"Break Fast on Time", "fasting", 20, "Clock", 30},
}

// SeedDefaultHabits inserts the shared habit catalog if it has not been
// seeded yet.
func SeedDefaultHabits(ctx context.Context, pool *pgxpool.Pool) error {
	var exists bool
	err := pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM habits WHERE is_default = true)",
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for seeded habits: %w", err)
	}
	if exists {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, h := range defaultHabits {
		_, err := tx.Exec(ctx, `
			INSERT INTO habits (id, title, category, xp_reward, icon, sort_order, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, true)
		`, uuid.New(), h.Title, h.Category, h.XPReward, h.Icon, h.Order)
		if err != nil {
			return fmt.Errorf("failed to seed habit %q: %w", h.Title, err)
		}
	}

	return tx.Commit(ctx)
}
