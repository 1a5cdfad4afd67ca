package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"agency-cms/internal/mail"
	"agency-cms/internal/shared/database"
	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/metrics"
	"agency-cms/internal/shared/schema"
	"agency-cms/internal/submission/config"
	"agency-cms/internal/submission/domain/model"

	"go.mongodb.org/mongo-driver/bson"
)

// Repositories are the four submission collections
type Repositories struct {
	Contacts     database.Repository[model.ContactSubmission]
	Inquiries    database.Repository[model.InquirySubmission]
	Applications database.Repository[model.JobApplication]
	Subscribers  database.Repository[model.Subscriber]
}

// ContentCounter reports content totals for the dashboard
type ContentCounter func(ctx context.Context) (map[string]int64, error)

// SubmissionUsecase takes in visitor submissions and serves them to admins.
// Emails are best effort: failures are logged and recorded, never returned.
type SubmissionUsecase struct {
	repos    Repositories
	mailer   mail.Mailer
	composer *mail.Composer
	bus      eventbus.EventBusInterface
	metrics  *metrics.Metrics
	cfg      *config.Config
	log      logger.Logger
	counter  ContentCounter

	inflight sync.WaitGroup
}

// Deps are the collaborators of the submission usecase
type Deps struct {
	Mailer   mail.Mailer
	Composer *mail.Composer
	Bus      eventbus.EventBusInterface
	Metrics  *metrics.Metrics
	Logger   logger.Logger
	Counter  ContentCounter
}

// NewSubmissionUsecase creates the submission usecase
func NewSubmissionUsecase(repos Repositories, cfg *config.Config, deps Deps) *SubmissionUsecase {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Mailer == nil {
		deps.Mailer = mail.NoopMailer{}
	}
	if deps.Composer == nil {
		deps.Composer = mail.NewComposer(&mail.Config{})
	}
	if deps.Bus == nil {
		deps.Bus = eventbus.NewEventBus(deps.Logger)
	}
	return &SubmissionUsecase{
		repos:    repos,
		mailer:   deps.Mailer,
		composer: deps.Composer,
		bus:      deps.Bus,
		metrics:  deps.Metrics,
		cfg:      cfg,
		log:      deps.Logger.WithComponent("submission"),
		counter:  deps.Counter,
	}
}

// SubmitContact stores a contact message, notifies the inbox and confirms to the sender
func (u *SubmissionUsecase) SubmitContact(ctx context.Context, input map[string]interface{}) (*model.ContactSubmission, error) {
	fields, err := validate(schema.Contact, input)
	if err != nil {
		return nil, err
	}
	fields["read"] = false

	sub, err := u.repos.Contacts.Insert(ctx, fields)
	if err != nil {
		return nil, u.storageError(model.KindContact, "save", err)
	}
	u.metrics.SubmissionStored(model.KindContact)
	id := sub.IDHex()

	subject := "New contact form submission"
	if sub.Subject != "" {
		subject = "New contact: " + sub.Subject
	}
	sub.EmailError = u.notify(ctx, recorder(u.repos.Contacts, id), mail.Notification{
		Template: mail.TemplateContactNotification,
		Subject:  subject,
		Title:    "New contact form submission",
		Fields: []mail.Field{
			{Label: "Name", Value: sub.Name},
			{Label: "Email", Value: sub.Email},
			{Label: "Phone", Value: sub.Phone},
			{Label: "Subject", Value: sub.Subject},
			{Label: "Service", Value: sub.Service},
		},
		BodyLabel:  "Message",
		Body:       sub.Message,
		ReplyTo:    sub.Email,
		ReceivedAt: sub.CreatedAt,
	})

	u.confirm(mail.Confirmation{
		Template: mail.TemplateContactConfirmation,
		To:       sub.Email,
		Name:     sub.Name,
		Subject:  "We received your message",
		Lead:     "Thanks for reaching out. We have received your message and will get back to you as soon as possible.",
		Body:     sub.Message,
	})

	u.announce(ctx, model.KindContact, id, sub.Name, sub.Email)
	return sub, nil
}

// SubmitInquiry stores a project inquiry, notifies the inbox and confirms to the sender
func (u *SubmissionUsecase) SubmitInquiry(ctx context.Context, input map[string]interface{}) (*model.InquirySubmission, error) {
	fields, err := validate(schema.Inquiry, input)
	if err != nil {
		return nil, err
	}
	fields["read"] = false

	sub, err := u.repos.Inquiries.Insert(ctx, fields)
	if err != nil {
		return nil, u.storageError(model.KindInquiry, "save", err)
	}
	u.metrics.SubmissionStored(model.KindInquiry)
	id := sub.IDHex()

	sub.EmailError = u.notify(ctx, recorder(u.repos.Inquiries, id), mail.Notification{
		Template: mail.TemplateInquiryNotification,
		Subject:  fmt.Sprintf("New project inquiry from %s", sub.Name),
		Title:    "New project inquiry",
		Fields: []mail.Field{
			{Label: "Name", Value: sub.Name},
			{Label: "Email", Value: sub.Email},
			{Label: "Phone", Value: sub.Phone},
			{Label: "Company", Value: sub.Company},
			{Label: "Service", Value: sub.Service},
			{Label: "Budget", Value: sub.Budget},
		},
		BodyLabel:  "Project details",
		Body:       sub.Message,
		ReplyTo:    sub.Email,
		ReceivedAt: sub.CreatedAt,
	})

	u.confirm(mail.Confirmation{
		Template: mail.TemplateInquiryConfirmation,
		To:       sub.Email,
		Name:     sub.Name,
		Subject:  "Thanks for your project inquiry",
		Lead:     "Thanks for telling us about your project. Our team will review the details and reach out within two business days.",
		Body:     sub.Message,
	})

	u.announce(ctx, model.KindInquiry, id, sub.Name, sub.Email)
	return sub, nil
}

// SubmitApplication stores a job application and notifies the inbox; applicants get no confirmation
func (u *SubmissionUsecase) SubmitApplication(ctx context.Context, input map[string]interface{}) (*model.JobApplication, error) {
	fields, err := validate(schema.JobApplication, input)
	if err != nil {
		return nil, err
	}

	app, err := u.repos.Applications.Insert(ctx, fields)
	if err != nil {
		return nil, u.storageError(model.KindApplication, "save", err)
	}
	u.metrics.SubmissionStored(model.KindApplication)
	id := app.IDHex()

	app.EmailError = u.notify(ctx, recorder(u.repos.Applications, id), mail.Notification{
		Template: mail.TemplateApplicationNotification,
		Subject:  fmt.Sprintf("New application: %s", app.JobTitle),
		Title:    "New job application",
		Fields: []mail.Field{
			{Label: "Position", Value: app.JobTitle},
			{Label: "Name", Value: app.Name},
			{Label: "Email", Value: app.Email},
			{Label: "Phone", Value: app.Phone},
			{Label: "Resume", Value: app.ResumeURL},
			{Label: "Portfolio", Value: app.PortfolioURL},
		},
		BodyLabel:  "Cover letter",
		Body:       app.CoverLetter,
		ReplyTo:    app.Email,
		ReceivedAt: app.CreatedAt,
	})

	u.announce(ctx, model.KindApplication, id, app.Name, app.Email)
	return app, nil
}

// Subscribe adds an email to the newsletter list. created is false when it was already there.
func (u *SubmissionUsecase) Subscribe(ctx context.Context, input map[string]interface{}) (*model.Subscriber, bool, error) {
	fields, err := validate(schema.Subscribe, input)
	if err != nil {
		return nil, false, err
	}

	sub, err := u.repos.Subscribers.Insert(ctx, fields)
	if errors.Is(err, database.ErrDuplicate) {
		existing, findErr := u.repos.Subscribers.FindOne(ctx, bson.M{"email": fields["email"]})
		if findErr != nil {
			return nil, false, u.storageError(model.KindSubscriber, "save", findErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, u.storageError(model.KindSubscriber, "save", err)
	}

	u.metrics.SubmissionStored(model.KindSubscriber)
	u.announce(ctx, model.KindSubscriber, sub.IDHex(), "", sub.Email)
	return sub, true, nil
}

// ListContacts returns contact messages newest first
func (u *SubmissionUsecase) ListContacts(ctx context.Context, unreadOnly bool) ([]model.ContactSubmission, error) {
	return listNewest(ctx, u, model.KindContact, u.repos.Contacts, unreadFilter(unreadOnly))
}

// ListInquiries returns project inquiries newest first
func (u *SubmissionUsecase) ListInquiries(ctx context.Context, unreadOnly bool) ([]model.InquirySubmission, error) {
	return listNewest(ctx, u, model.KindInquiry, u.repos.Inquiries, unreadFilter(unreadOnly))
}

// ListApplications returns job applications newest first
func (u *SubmissionUsecase) ListApplications(ctx context.Context) ([]model.JobApplication, error) {
	return listNewest(ctx, u, model.KindApplication, u.repos.Applications, bson.M{})
}

// ListSubscribers returns newsletter subscribers newest first
func (u *SubmissionUsecase) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	return listNewest(ctx, u, model.KindSubscriber, u.repos.Subscribers, bson.M{})
}

// SetContactRead flips the read flag, or sets it when read is given
func (u *SubmissionUsecase) SetContactRead(ctx context.Context, id string, read *bool) (*model.ContactSubmission, error) {
	return setRead(ctx, u, model.KindContact, u.repos.Contacts, id, read, func(s *model.ContactSubmission) bool { return s.Read })
}

// SetInquiryRead flips the read flag, or sets it when read is given
func (u *SubmissionUsecase) SetInquiryRead(ctx context.Context, id string, read *bool) (*model.InquirySubmission, error) {
	return setRead(ctx, u, model.KindInquiry, u.repos.Inquiries, id, read, func(s *model.InquirySubmission) bool { return s.Read })
}

// DeleteContact removes a contact message
func (u *SubmissionUsecase) DeleteContact(ctx context.Context, id string) error {
	return u.remove(ctx, model.KindContact, id, u.repos.Contacts.Delete)
}

// DeleteInquiry removes a project inquiry
func (u *SubmissionUsecase) DeleteInquiry(ctx context.Context, id string) error {
	return u.remove(ctx, model.KindInquiry, id, u.repos.Inquiries.Delete)
}

// DeleteApplication removes a job application
func (u *SubmissionUsecase) DeleteApplication(ctx context.Context, id string) error {
	return u.remove(ctx, model.KindApplication, id, u.repos.Applications.Delete)
}

// DeleteSubscriber removes a newsletter subscriber
func (u *SubmissionUsecase) DeleteSubscriber(ctx context.Context, id string) error {
	return u.remove(ctx, model.KindSubscriber, id, u.repos.Subscribers.Delete)
}

// Stats counts every submission collection, plus content totals when a counter is wired
func (u *SubmissionUsecase) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	counts := []struct {
		dst   *int64
		kind  string
		count func(context.Context, bson.M) (int64, error)
		where bson.M
	}{
		{&stats.Contacts, model.KindContact, u.repos.Contacts.Count, bson.M{}},
		{&stats.UnreadContacts, model.KindContact, u.repos.Contacts.Count, unreadFilter(true)},
		{&stats.Inquiries, model.KindInquiry, u.repos.Inquiries.Count, bson.M{}},
		{&stats.UnreadInquiries, model.KindInquiry, u.repos.Inquiries.Count, unreadFilter(true)},
		{&stats.Applications, model.KindApplication, u.repos.Applications.Count, bson.M{}},
		{&stats.Subscribers, model.KindSubscriber, u.repos.Subscribers.Count, bson.M{}},
	}
	for _, c := range counts {
		n, err := c.count(ctx, c.where)
		if err != nil {
			return nil, u.storageError(c.kind, "count", err)
		}
		*c.dst = n
	}

	if u.counter != nil {
		content, err := u.counter(ctx)
		if err != nil {
			u.log.Warnf("content counts unavailable: %v", err)
		} else {
			stats.Content = content
		}
	}
	return stats, nil
}

// Wait blocks until in-flight confirmation emails finish
func (u *SubmissionUsecase) Wait() {
	u.inflight.Wait()
}

func listNewest[T any](ctx context.Context, u *SubmissionUsecase, kind string, repo database.Repository[T], filter bson.M) ([]T, error) {
	items, err := repo.Find(ctx, filter, database.FindOptions{Sort: bson.D{{Key: "created_at", Value: -1}}})
	if err != nil {
		return nil, u.storageError(kind, "list", err)
	}
	return items, nil
}

func setRead[T any](ctx context.Context, u *SubmissionUsecase, kind string, repo database.Repository[T], id string, read *bool, current func(*T) bool) (*T, error) {
	next := true
	if read != nil {
		next = *read
	} else {
		doc, err := repo.FindByID(ctx, id)
		if err != nil {
			return nil, u.storageError(kind, "load", err)
		}
		next = !current(doc)
	}

	doc, err := repo.Update(ctx, id, bson.M{"read": next})
	if err != nil {
		return nil, u.storageError(kind, "update", err)
	}
	return doc, nil
}

func (u *SubmissionUsecase) remove(ctx context.Context, kind, id string, del func(context.Context, string) error) error {
	if err := del(ctx, id); err != nil {
		return u.storageError(kind, "delete", err)
	}
	return nil
}

func unreadFilter(unreadOnly bool) bson.M {
	if unreadOnly {
		return bson.M{"read": false}
	}
	return bson.M{}
}

// recorder stores an email failure on the submission it belongs to
func recorder[T any](repo database.Repository[T], id string) func(context.Context, bson.M) error {
	return func(ctx context.Context, fields bson.M) error {
		_, err := repo.Update(ctx, id, fields)
		return err
	}
}

// notify sends the inbox notification and returns the failure text it recorded, if any
func (u *SubmissionUsecase) notify(ctx context.Context, record func(context.Context, bson.M) error, n mail.Notification) string {
	sendCtx, cancel := context.WithTimeout(ctx, u.cfg.NotificationTimeout)
	defer cancel()

	err := u.send(sendCtx, func() (mail.Message, error) { return u.composer.Notification(n) }, n.Template)
	if err == nil {
		return ""
	}

	u.log.Errorf("📧 %s failed: %v", n.Template, err)
	if recErr := record(context.WithoutCancel(ctx), bson.M{"email_error": err.Error()}); recErr != nil {
		u.log.Warnf("could not record email_error: %v", recErr)
	}
	return err.Error()
}

// confirm sends the visitor acknowledgement in the background with its own deadline
func (u *SubmissionUsecase) confirm(c mail.Confirmation) {
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), u.cfg.ConfirmationTimeout)
		defer cancel()

		err := u.send(ctx, func() (mail.Message, error) { return u.composer.Confirmation(c) }, c.Template)
		if err != nil {
			u.log.Warnf("📧 %s to %s failed: %v", c.Template, c.To, err)
		}
	}()
}

func (u *SubmissionUsecase) send(ctx context.Context, compose func() (mail.Message, error), template string) error {
	msg, err := compose()
	if err == nil {
		err = u.mailer.Send(ctx, msg)
	}
	u.metrics.EmailOutcome(template, err)
	return err
}

func (u *SubmissionUsecase) announce(ctx context.Context, kind, id, name, email string) {
	u.bus.PublishAndForget(context.WithoutCancel(ctx), eventbus.NewEvent(
		eventbus.EventTypeSubmissionCreated,
		eventbus.SubmissionCreated{Kind: kind, ID: id, Name: name, Email: email},
		"submission",
	))
}

func validate(name string, input map[string]interface{}) (bson.M, error) {
	s, ok := schema.Get(name)
	if !ok {
		return nil, apperrors.NewInternalError("unknown schema " + name)
	}
	clean, verrs := s.Validate(input, false)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	return bson.M(clean), nil
}

func (u *SubmissionUsecase) storageError(kind, op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.NewNotFoundError(label(kind))
	}
	u.log.Errorf("❌ %s %s failed: %v", kind, op, err)
	return apperrors.NewInfrastructureError(fmt.Sprintf("Failed to %s %s", op, label(kind))).WithCause(err)
}

func label(kind string) string {
	switch kind {
	case model.KindContact:
		return "Submission"
	case model.KindInquiry:
		return "Inquiry"
	case model.KindApplication:
		return "Application"
	case model.KindSubscriber:
		return "Subscriber"
	}
	return "Record"
}
