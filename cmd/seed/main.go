package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/modules/auth"
	"roomdesk/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roomdesk.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM uploads")
	db.Exec("DELETE FROM booking_requests")
	db.Exec("DELETE FROM room_deposits")
	db.Exec("DELETE FROM room_day_statuses")
	db.Exec("DELETE FROM booking_products")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM customers")
	db.Exec("DELETE FROM room_variants")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM staff")
	db.Exec("DELETE FROM stores")

	ctx := context.Background()
	staffRepo := repository.NewStaffRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	log.Println("Creating store...")
	store := domain.Store{Name: "Kos Melati", Slug: "kos-melati"}
	if err := staffRepo.CreateStore(ctx, &store); err != nil {
		log.Fatal(err)
	}

	log.Println("Creating staff...")
	adminHash, _ := auth.HashPassword("admin123")
	admin := domain.Staff{
		StoreID:      store.ID,
		Username:     "admin",
		PasswordHash: adminHash,
		DisplayName:  "Admin",
		Role:         domain.RoleAdmin,
	}
	if err := staffRepo.Create(ctx, &admin); err != nil {
		log.Fatal(err)
	}
	log.Println("Admin created: admin / admin123")

	frontdeskHash, _ := auth.HashPassword("frontdesk123")
	frontdesk := domain.Staff{
		StoreID:      store.ID,
		Username:     "ani",
		PasswordHash: frontdeskHash,
		DisplayName:  "Ani",
		Role:         domain.RoleFrontdesk,
	}
	if err := staffRepo.Create(ctx, &frontdesk); err != nil {
		log.Fatal(err)
	}
	log.Println("Frontdesk created: ani / frontdesk123")

	log.Println("Creating rooms...")
	hourly := []struct {
		name  string
		price int64
	}{
		{"Ruang A", 50000},
		{"Ruang B", 60000},
	}
	for i, h := range hourly {
		room := domain.Room{StoreID: store.ID, Name: h.name, Status: domain.RoomActive, SortOrder: i}
		if err := roomRepo.Create(ctx, &room); err != nil {
			log.Fatal(err)
		}
		variant := domain.RoomVariant{
			RoomID:   room.ID,
			Label:    "Per jam",
			Price:    h.price,
			Duration: 1,
			Unit:     domain.UnitHour,
			Active:   true,
		}
		if err := roomRepo.CreateVariant(ctx, &variant); err != nil {
			log.Fatal(err)
		}
	}

	kamar := domain.Room{StoreID: store.ID, Name: "Kamar 1", Status: domain.RoomActive, SortOrder: 10}
	if err := roomRepo.Create(ctx, &kamar); err != nil {
		log.Fatal(err)
	}
	for _, v := range []domain.RoomVariant{
		{RoomID: kamar.ID, Label: "Per malam", Price: 200000, Duration: 1, Unit: domain.UnitDay, Active: true},
		{RoomID: kamar.ID, Label: "Mingguan", Price: 1200000, Duration: 1, Unit: domain.UnitWeek, Active: true},
		{RoomID: kamar.ID, Label: "Bulanan", Price: 4000000, Duration: 1, Unit: domain.UnitMonth, Active: true},
	} {
		variant := v
		if err := roomRepo.CreateVariant(ctx, &variant); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Seed complete.")
}
