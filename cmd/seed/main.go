package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/docsched/medical-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs, err := seedDoctors(context.Background(), pool, 50)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAvailabilities(context.Background(), pool, doctorIDs); err != nil {
		log.Fatalf("seed availabilities: %v", err)
	}

	log.Println("seed complete")
}

func nextID(ctx context.Context, pool *pgxpool.Pool) (uint64, error) {
	var id uint64
	err := pool.QueryRow(ctx, `SELECT nextval('record_ids')`).Scan(&id)
	return id, err
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uint64, error) {
	log.Printf("seeding %d doctors", count)

	specialisms := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	ids := make([]uint64, 0, count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id, err := nextID(ctx, pool)
		if err != nil {
			return nil, err
		}
		name := gofakeit.Name()
		spec := specialisms[gofakeit.Number(0, len(specialisms)-1)]

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, full_name, specialism, created_at)
			VALUES ($1, $2, $3, now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id, err := nextID(ctx, pool)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
			username := gofakeit.Username()

			_, err = tx.Exec(ctx, `
				INSERT INTO patients (id, username, created_at)
				VALUES ($1, $2, now())
			`, id, username)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// seedAvailabilities publishes a weekday grid of half-hour slots per doctor.
// Slot matching ignores day_of_week, so the day is baked into the token
// ("Mon 09:00") to keep start times unique within a doctor's schedule.
func seedAvailabilities(ctx context.Context, pool *pgxpool.Pool, doctorIDs []uint64) error {
	log.Printf("seeding availabilities for %d doctors", len(doctorIDs))

	for _, doctorID := range doctorIDs {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for day := 1; day <= 5; day++ { // Monday..Friday
			for hour := 9; hour < 17; hour++ {
				for _, min := range []int{0, 30} {
					id, err := nextID(ctx, pool)
					if err != nil {
						_ = tx.Rollback(ctx)
						return err
					}

					start := fmt.Sprintf("%s %02d:%02d", dayNames[day], hour, min)
					endMin := min + 30
					endHour := hour
					if endMin == 60 {
						endMin = 0
						endHour++
					}
					end := fmt.Sprintf("%s %02d:%02d", dayNames[day], endHour, endMin)

					_, err = tx.Exec(ctx, `
						INSERT INTO availabilities (id, doctor_id, day_of_week, start_time, end_time, is_available)
						VALUES ($1, $2, $3, $4, $5, TRUE)
					`, id, doctorID, day, start, end)
					if err != nil {
						_ = tx.Rollback(ctx)
						return err
					}
				}
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}

	log.Println("availabilities seeded")
	return nil
}
