package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"planora/internal/config"
	"planora/internal/db"
	"planora/internal/model"
	"planora/internal/repository"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@planora.local"
	demoPassword = "demo1234"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}, &model.Event{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	tasks := repository.NewTaskRepository(gormDB)
	events := repository.NewEventRepository(gormDB)

	user, err := users.FindByEmail(ctx, demoEmail)
	if err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		user = &model.User{
			Username:     demoUsername,
			Email:        demoEmail,
			PasswordHash: string(hashed),
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s (%s)", demoUsername, demoEmail)
	} else if err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	} else {
		log.Printf("Demo user %s already present", demoUsername)
	}

	count, err := tasks.CountByOwner(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to count demo tasks: %v", err)
	}
	if count == 0 {
		now := time.Now()
		seedTasks := []model.Task{
			{UserID: user.ID, Title: "Buy milk", DueDate: now.Add(24 * time.Hour)},
			{UserID: user.ID, Title: "Pay electricity bill", Description: "Due end of the month", DueDate: now.Add(7 * 24 * time.Hour)},
			{UserID: user.ID, Title: "Book dentist appointment", DueDate: now.Add(14 * 24 * time.Hour)},
		}
		for i := range seedTasks {
			if err := tasks.Create(ctx, &seedTasks[i]); err != nil {
				log.Fatalf("Failed to seed task: %v", err)
			}
		}
		log.Printf("Seeded %d tasks", len(seedTasks))
	}

	eventCount, err := events.CountByOwner(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to count demo events: %v", err)
	}
	if eventCount == 0 {
		now := time.Now()
		seedEvents := []model.Event{
			{UserID: user.ID, Title: "Team standup", StartDate: now.Add(time.Hour), EndDate: now.Add(90 * time.Minute), Recurrence: model.RecurrenceDaily},
			{UserID: user.ID, Title: "Gym", StartDate: now.Add(26 * time.Hour), EndDate: now.Add(27 * time.Hour), Recurrence: model.RecurrenceWeekly},
			{UserID: user.ID, Title: "Flight to Berlin", Description: "Gate closes 40 min before departure", StartDate: now.Add(5 * 24 * time.Hour), EndDate: now.Add(5*24*time.Hour + 2*time.Hour)},
		}
		for i := range seedEvents {
			if err := events.Create(ctx, &seedEvents[i]); err != nil {
				log.Fatalf("Failed to seed event: %v", err)
			}
		}
		log.Printf("Seeded %d events", len(seedEvents))
	}

	log.Println("Seed complete")
}
