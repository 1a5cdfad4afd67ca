package usecase

import (
	"context"
	"fmt"
	"strings"

	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/shared/logger"
)

// Source is one block of site content in the system prompt
type Source struct {
	Title string
	Fetch func(ctx context.Context) ([]string, error)
}

// RecentLister is satisfied by the content use cases
type RecentLister[T any] interface {
	Recent(ctx context.Context, limit int64) ([]T, error)
}

// RecentSource lists up to limit visible records, one line each
func RecentSource[T any](title string, lister RecentLister[T], limit int64, line func(T) string) Source {
	return Source{
		Title: title,
		Fetch: func(ctx context.Context) ([]string, error) {
			items, err := lister.Recent(ctx, limit)
			if err != nil {
				return nil, err
			}
			lines := make([]string, 0, len(items))
			for _, item := range items {
				if l := strings.TrimSpace(line(item)); l != "" {
					lines = append(lines, l)
				}
			}
			return lines, nil
		},
	}
}

// ContextBuilder assembles the system prompt from current site content
type ContextBuilder struct {
	sources []Source
	cfg     *config.Config
	log     logger.Logger
}

// NewContextBuilder creates a builder over sources
func NewContextBuilder(cfg *config.Config, log logger.Logger, sources ...Source) *ContextBuilder {
	if log == nil {
		log = logger.NewNop()
	}
	return &ContextBuilder{sources: sources, cfg: cfg, log: log}
}

// Build reads every source. A source that fails is logged and left out.
func (b *ContextBuilder) Build(ctx context.Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the friendly website assistant for %s. ", b.cfg.SiteName)
	sb.WriteString("Answer visitor questions briefly, using only the information below. ")
	sb.WriteString("If the answer is not covered, suggest getting in touch through the contact page.\n")

	for _, src := range b.sources {
		lines, err := src.Fetch(ctx)
		if err != nil {
			b.log.Warnf("🤖 skipping %s in chatbot context: %v", src.Title, err)
			continue
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", src.Title)
		for _, l := range lines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}

	contact := b.contactLines()
	if len(contact) > 0 {
		sb.WriteString("\nContact:\n")
		for _, l := range contact {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (b *ContextBuilder) contactLines() []string {
	var lines []string
	if b.cfg.ContactEmail != "" {
		lines = append(lines, "Email: "+b.cfg.ContactEmail)
	}
	if b.cfg.ContactPhone != "" {
		lines = append(lines, "Phone: "+b.cfg.ContactPhone)
	}
	if b.cfg.ContactAddress != "" {
		lines = append(lines, "Address: "+b.cfg.ContactAddress)
	}
	return lines
}
