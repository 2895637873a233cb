package main

import (
	"context"
	"log"

	"github.com/HaseevAhmad/project-pilot/internal/config"
	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/internal/services"
	"github.com/HaseevAhmad/project-pilot/pkg/database"
	"github.com/HaseevAhmad/project-pilot/pkg/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(database.Options{Driver: cfg.DBDriver, Path: cfg.DBPath, DSN: cfg.DBDSN})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	files, err := storage.NewStorage(cfg.UploadPath, cfg.MaxFileSize)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	store := repository.NewStore(db.DB)
	users := services.NewUserService(store, files)
	projects := services.NewProjectService(store, files)
	notices := services.NewNoticeService(store)

	// Пользователи
	supervisor, err := users.Create(ctx, services.CreateUserInput{
		Name: "Dr. Ayesha Khan", Email: "supervisor@projectpilot.local", Password: "supervisor123",
		Role: models.RoleSupervisor,
	})
	if err != nil {
		log.Fatalf("Failed to create supervisor: %v", err)
	}

	students := []services.CreateUserInput{
		{Name: "Ali Raza", Email: "ali@projectpilot.local", Password: "student123", Role: models.RoleStudent, RollNumber: "BSCS-001", Semester: "3rd Semester"},
		{Name: "Sara Malik", Email: "sara@projectpilot.local", Password: "student123", Role: models.RoleStudent, RollNumber: "BSCS-002", Semester: "3rd Semester"},
		{Name: "Omar Farooq", Email: "omar@projectpilot.local", Password: "student123", Role: models.RoleStudent, RollNumber: "BSCS-101", Semester: "2nd Semester"},
	}
	var studentIDs []string
	for _, in := range students {
		u, err := users.Create(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create student %s: %v", in.Email, err)
		}
		studentIDs = append(studentIDs, u.UserID)
	}

	// Проекты
	p, err := projects.Create(ctx, services.CreateProjectInput{
		Title:        "Smart Attendance System",
		Description:  "Face-recognition based attendance for lecture halls",
		SupervisorID: supervisor.UserID,
		Semester:     "3rd Semester",
	})
	if err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}
	for _, id := range studentIDs[:2] {
		if err := projects.AddMember(ctx, p.ProjectID, id); err != nil {
			log.Fatalf("Failed to add member: %v", err)
		}
	}
	if _, err := projects.Update(ctx, p.ProjectID, models.ProjectPatch{LeaderID: models.Some(studentIDs[0])}); err != nil {
		log.Fatalf("Failed to set leader: %v", err)
	}

	// Объявления
	seedNotices := []services.CreateNoticeInput{
		{Title: "Welcome", Content: "Project registration is open.", AudienceType: models.AudienceAll, AuthorID: supervisor.UserID},
		{Title: "Proposal deadline", Content: "Submit proposals by Friday.", AudienceType: models.AudienceSpecificSemester, TargetID: "3rd Semester", AuthorID: supervisor.UserID},
		{Title: "Team meeting", Content: "Weekly sync on Monday.", AudienceType: models.AudienceSpecificProject, TargetID: p.ProjectID, AuthorID: supervisor.UserID},
	}
	for _, in := range seedNotices {
		if _, err := notices.Create(ctx, nil, in); err != nil {
			log.Fatalf("Failed to create notice: %v", err)
		}
	}

	log.Printf("Seed data created: 1 supervisor, %d students, 1 project, %d notices", len(studentIDs), len(seedNotices))
}
