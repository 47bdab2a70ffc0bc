package services

import (
	"github.com/regelwerk/backend/internal/infrastructure/database"
	"github.com/regelwerk/backend/internal/infrastructure/persistence"
)

// ServiceManager wires the repositories and services together
type ServiceManager struct {
	db *database.Connection

	ChangeLog *ChangeLogService
	Templates *TemplateService
	Fields    *FieldService
	Render    *RenderService
	Auth      *AuthService
	Scheduler *SchedulerService
}

// NewServiceManager builds the full service graph on one DB connection
func NewServiceManager(db *database.Connection) *ServiceManager {
	fieldRepo := persistence.NewFieldRepository(db.DB())
	templateRepo := persistence.NewTemplateRepository(db.DB())
	textRepo := persistence.NewTextRepository(db.DB())
	changeLogRepo := persistence.NewChangeLogRepository(db.DB())
	userRepo := persistence.NewUserRepository(db.DB())

	sm := &ServiceManager{db: db}
	sm.ChangeLog = NewChangeLogService(changeLogRepo)
	sm.Templates = NewTemplateService(templateRepo, fieldRepo, textRepo, sm.ChangeLog)
	sm.Fields = NewFieldService(fieldRepo, templateRepo, textRepo, sm.ChangeLog)
	sm.Render = NewRenderService(templateRepo, fieldRepo, textRepo)
	sm.Auth = NewAuthService(userRepo)
	sm.Scheduler = NewSchedulerService(sm.ChangeLog)
	return sm
}
