package http

import (
	"context"
	"mime/multipart"
	"time"

	"agency-cms/internal/media"
	"agency-cms/internal/shared/httpx"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/schema"
	"agency-cms/internal/submission/config"
	"agency-cms/internal/submission/usecase"

	"github.com/gofiber/fiber/v2"
)

// ResumeUploader hosts the resume attached to a job application
type ResumeUploader interface {
	UploadFormFile(ctx context.Context, fh *multipart.FileHeader, folder string) (*media.Uploaded, error)
	Configured() bool
}

// SubmissionHTTPHandler serves the public forms and their admin views
type SubmissionHTTPHandler struct {
	usecase *usecase.SubmissionUsecase
	resumes ResumeUploader
	cfg     *config.Config
	log     logger.Logger
	devMode bool
}

// NewSubmissionHTTPHandler creates the handler; resumes may be nil when uploads are disabled
func NewSubmissionHTTPHandler(uc *usecase.SubmissionUsecase, resumes ResumeUploader, cfg *config.Config, log logger.Logger, devMode bool) *SubmissionHTTPHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SubmissionHTTPHandler{usecase: uc, resumes: resumes, cfg: cfg, log: log.WithComponent("submission"), devMode: devMode}
}

// RegisterPublicRoutes mounts the visitor forms behind a per-client rate limit
func (h *SubmissionHTTPHandler) RegisterPublicRoutes(router fiber.Router) {
	limit := httpx.RateLimiter(h.cfg.RateLimitMax, h.cfg.RateLimitWindow, "Too many submissions, please try again later")
	router.Post("/contact", limit, h.SubmitContact)
	router.Post("/inquiry", limit, h.SubmitInquiry)
	router.Post("/careers/apply", limit, h.SubmitApplication)
	router.Post("/subscribe", limit, h.Subscribe)
}

// RegisterAdminRoutes mounts the inbox routes behind requireAdmin
func (h *SubmissionHTTPHandler) RegisterAdminRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Get("/stats", requireAdmin, h.Stats)

	contacts := router.Group("/contacts", requireAdmin)
	contacts.Get("/", h.ListContacts)
	contacts.Patch("/:id/read", h.ReadContact)
	contacts.Delete("/:id", h.DeleteContact)

	inquiries := router.Group("/inquiries", requireAdmin)
	inquiries.Get("/", h.ListInquiries)
	inquiries.Patch("/:id/read", h.ReadInquiry)
	inquiries.Delete("/:id", h.DeleteInquiry)

	applications := router.Group("/applications", requireAdmin)
	applications.Get("/", h.ListApplications)
	applications.Delete("/:id", h.DeleteApplication)

	subscribers := router.Group("/subscribers", requireAdmin)
	subscribers.Get("/", h.ListSubscribers)
	subscribers.Delete("/:id", h.DeleteSubscriber)
}

// SubmitContact handles the contact form
func (h *SubmissionHTTPHandler) SubmitContact(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	sub, err := h.usecase.SubmitContact(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return h.accepted(c, "Thank you for your message! We'll get back to you soon.", sub.IDHex())
}

// SubmitInquiry handles the project inquiry form
func (h *SubmissionHTTPHandler) SubmitInquiry(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	sub, err := h.usecase.SubmitInquiry(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return h.accepted(c, "Thank you for your inquiry! We'll be in touch shortly.", sub.IDHex())
}

// SubmitApplication handles a job application with an optional resume file.
// Without a media provider the file is dropped and the application is still stored.
func (h *SubmissionHTTPHandler) SubmitApplication(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	if fh, ferr := c.FormFile("resume"); ferr == nil {
		if h.resumes == nil || !h.resumes.Configured() {
			h.log.WithContext(c.UserContext()).Warnf("📎 Resume %q not stored: file uploads are not configured", fh.Filename)
		} else {
			uploaded, err := h.resumes.UploadFormFile(c.UserContext(), fh, "resumes")
			if err != nil {
				return httpx.Error(c, err, h.devMode)
			}
			input["resume_url"] = uploaded.URL
		}
	}

	app, err := h.usecase.SubmitApplication(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return h.accepted(c, "Application submitted successfully! We'll review it and get back to you.", app.IDHex())
}

// Subscribe adds an email to the newsletter
func (h *SubmissionHTTPHandler) Subscribe(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	sub, created, err := h.usecase.Subscribe(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	if !created {
		return httpx.Success(c, fiber.StatusOK, "Email already subscribed", sub)
	}
	return httpx.Success(c, fiber.StatusCreated, "Subscribed successfully", sub)
}

// ListContacts returns contact messages, ?unread=true for unread only
func (h *SubmissionHTTPHandler) ListContacts(c *fiber.Ctx) error {
	items, err := h.usecase.ListContacts(c.UserContext(), c.QueryBool("unread"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// ListInquiries returns inquiries, ?unread=true for unread only
func (h *SubmissionHTTPHandler) ListInquiries(c *fiber.Ctx) error {
	items, err := h.usecase.ListInquiries(c.UserContext(), c.QueryBool("unread"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// ListApplications returns job applications
func (h *SubmissionHTTPHandler) ListApplications(c *fiber.Ctx) error {
	items, err := h.usecase.ListApplications(c.UserContext())
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// ListSubscribers returns newsletter subscribers
func (h *SubmissionHTTPHandler) ListSubscribers(c *fiber.Ctx) error {
	items, err := h.usecase.ListSubscribers(c.UserContext())
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// ReadContact toggles a contact's read flag, or sets it from {read}
func (h *SubmissionHTTPHandler) ReadContact(c *fiber.Ctx) error {
	read, err := h.readFlag(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	sub, err := h.usecase.SetContactRead(c.UserContext(), c.Params("id"), read)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Submission updated", sub)
}

// ReadInquiry toggles an inquiry's read flag, or sets it from {read}
func (h *SubmissionHTTPHandler) ReadInquiry(c *fiber.Ctx) error {
	read, err := h.readFlag(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	sub, err := h.usecase.SetInquiryRead(c.UserContext(), c.Params("id"), read)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Inquiry updated", sub)
}

// DeleteContact removes a contact message
func (h *SubmissionHTTPHandler) DeleteContact(c *fiber.Ctx) error {
	return h.deleted(c, h.usecase.DeleteContact(c.UserContext(), c.Params("id")), "Submission deleted")
}

// DeleteInquiry removes an inquiry
func (h *SubmissionHTTPHandler) DeleteInquiry(c *fiber.Ctx) error {
	return h.deleted(c, h.usecase.DeleteInquiry(c.UserContext(), c.Params("id")), "Inquiry deleted")
}

// DeleteApplication removes a job application
func (h *SubmissionHTTPHandler) DeleteApplication(c *fiber.Ctx) error {
	return h.deleted(c, h.usecase.DeleteApplication(c.UserContext(), c.Params("id")), "Application deleted")
}

// DeleteSubscriber removes a subscriber
func (h *SubmissionHTTPHandler) DeleteSubscriber(c *fiber.Ctx) error {
	return h.deleted(c, h.usecase.DeleteSubscriber(c.UserContext(), c.Params("id")), "Subscriber removed")
}

// Stats returns the dashboard counters
func (h *SubmissionHTTPHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.usecase.Stats(c.UserContext())
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "", stats)
}

// accepted holds the response for the configured delay, then acknowledges the submission
func (h *SubmissionHTTPHandler) accepted(c *fiber.Ctx, message, id string) error {
	if h.cfg.ResponseDelay > 0 {
		timer := time.NewTimer(h.cfg.ResponseDelay)
		select {
		case <-timer.C:
		case <-c.UserContext().Done():
			timer.Stop()
		}
	}
	return httpx.Success(c, fiber.StatusOK, message, fiber.Map{"id": id})
}

func (h *SubmissionHTTPHandler) deleted(c *fiber.Ctx, err error, message string) error {
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, message, nil)
}

// readFlag returns the explicit read value from the body, nil to toggle
func (h *SubmissionHTTPHandler) readFlag(c *fiber.Ctx) (*bool, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}
	input, err := httpx.BodyMap(c)
	if err != nil {
		return nil, err
	}
	sch, _ := schema.Get(schema.ReadFlag)
	clean, verrs := sch.Validate(input, true)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	v, ok := clean["read"].(bool)
	if !ok {
		return nil, nil
	}
	return &v, nil
}
