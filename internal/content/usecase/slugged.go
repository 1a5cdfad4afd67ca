package usecase

import (
	"context"
	"errors"
	"fmt"

	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/domain/repository"
	"agency-cms/internal/shared/database"
	"agency-cms/internal/shared/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxSlugAttempts = 50
	excerptLength   = 200
)

// NewBlogUsecase creates the blog usecase: slugs are derived from titles, markdown is
// rendered into content_html and published_at is stamped on first publication.
func NewBlogUsecase(repo repository.Repository[model.BlogPost], deps Deps) *Usecase[model.BlogPost] {
	u := New[model.BlogPost](model.Blog, repo, deps)
	u.prepare = func(ctx context.Context, id string, fields bson.M) error {
		if err := assignSlug(ctx, repo, id, fields, "post"); err != nil {
			return err
		}

		if content, ok := fields["content"].(string); ok {
			html, err := text.RenderMarkdown(content)
			if err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
			fields["content_html"] = html
			if excerpt, _ := fields["excerpt"].(string); excerpt == "" && id == "" {
				fields["excerpt"] = text.Truncate(text.PlainText(content), excerptLength)
			}
		}

		if published, _ := fields["published"].(bool); published {
			if id == "" {
				fields["published_at"] = u.now().UTC()
				return nil
			}
			existing, err := repo.FindByID(ctx, id)
			if err != nil {
				return u.storageError("update", err)
			}
			if existing.PublishedAt == nil {
				fields["published_at"] = u.now().UTC()
			}
		}
		return nil
	}
	return u
}

// NewJobsUsecase creates the job postings usecase with title-derived slugs
func NewJobsUsecase(repo repository.Repository[model.JobPosting], deps Deps) *Usecase[model.JobPosting] {
	u := New[model.JobPosting](model.Jobs, repo, deps)
	u.prepare = func(ctx context.Context, id string, fields bson.M) error {
		return assignSlug(ctx, repo, id, fields, "job")
	}
	return u
}

// assignSlug normalizes a given slug, or derives one from the title on create,
// then suffixes it until no other record uses it
func assignSlug[T any](ctx context.Context, repo repository.Repository[T], id string, fields bson.M, fallback string) error {
	var base string
	if s, ok := fields["slug"].(string); ok && s != "" {
		base = text.Slugify(s)
	} else if id == "" {
		title, _ := fields["title"].(string)
		base = text.Slugify(title)
	} else {
		delete(fields, "slug")
		return nil
	}
	if base == "" {
		base = fallback
	}

	slug, err := uniqueSlug(ctx, repo, base, id)
	if err != nil {
		return err
	}
	fields["slug"] = slug
	return nil
}

func uniqueSlug[T any](ctx context.Context, repo repository.Repository[T], base, excludeID string) (string, error) {
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		filter := bson.M{"slug": candidate}
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}

		_, err := repo.FindOne(ctx, filter)
		if errors.Is(err, database.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", model.ErrSlugTaken
}
