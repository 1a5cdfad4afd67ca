package submission

import (
	"context"

	"agency-cms/internal/shared/database"
	submissionhttp "agency-cms/internal/submission/adapter/http"
	"agency-cms/internal/submission/config"
	"agency-cms/internal/submission/domain/model"
	"agency-cms/internal/submission/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionModule wires the visitor forms, newsletter and the admin inbox
type SubmissionModule struct {
	Usecase *usecase.SubmissionUsecase
	handler *submissionhttp.SubmissionHTTPHandler

	subscribers *database.Store[model.Subscriber]
	contacts    *database.Store[model.ContactSubmission]
	inquiries   *database.Store[model.InquirySubmission]
}

// NewSubmissionModule creates a new submission module instance
func NewSubmissionModule(db *mongo.Database, cfg *config.Config, deps usecase.Deps, resumes submissionhttp.ResumeUploader, devMode bool) *SubmissionModule {
	m := &SubmissionModule{
		subscribers: database.NewStore[model.Subscriber](db, model.SubscriberCollection),
		contacts:    database.NewStore[model.ContactSubmission](db, model.ContactCollection),
		inquiries:   database.NewStore[model.InquirySubmission](db, model.InquiryCollection),
	}
	m.Usecase = usecase.NewSubmissionUsecase(usecase.Repositories{
		Contacts:     m.contacts,
		Inquiries:    m.inquiries,
		Applications: database.NewStore[model.JobApplication](db, model.ApplicationCollection),
		Subscribers:  m.subscribers,
	}, cfg, deps)
	m.handler = submissionhttp.NewSubmissionHTTPHandler(m.Usecase, resumes, cfg, deps.Logger, devMode)
	return m
}

// Init creates the unique subscriber email index and the inbox sort indexes
func (m *SubmissionModule) Init(ctx context.Context) error {
	if err := m.subscribers.EnsureIndexes(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	inbox := mongo.IndexModel{Keys: bson.D{{Key: "read", Value: 1}, {Key: "created_at", Value: -1}}}
	if err := m.contacts.EnsureIndexes(ctx, inbox); err != nil {
		return err
	}
	return m.inquiries.EnsureIndexes(ctx, inbox)
}

// RegisterRoutes mounts public forms on api and the inbox on admin
func (m *SubmissionModule) RegisterRoutes(api, admin fiber.Router, requireAdmin fiber.Handler) {
	m.handler.RegisterPublicRoutes(api)
	m.handler.RegisterAdminRoutes(admin, requireAdmin)
}

// Stop waits for confirmation emails still in flight
func (m *SubmissionModule) Stop() error {
	m.Usecase.Wait()
	return nil
}
