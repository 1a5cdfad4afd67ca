package model

import (
	"errors"

	"agency-cms/internal/shared/schema"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("content not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrSectionTaken = errors.New("page section already exists")
)

// Kind describes one content collection and how it is exposed
type Kind struct {
	// Name is the event/cache name and the admin path segment
	Name       string
	Label      string
	Collection string
	Schema     string
	// PublicPath is mounted under /api; empty means no public listing
	PublicPath string
	// PublicFilter restricts what visitors see
	PublicFilter bson.M
	// Filters maps allowed public query parameters to document fields
	Filters map[string]string
	Sort    bson.D
	// HasSlug kinds can be fetched publicly by slug
	HasSlug bool
	Indexes []mongo.IndexModel
}

var (
	Services = Kind{
		Name:         "services",
		Label:        "Service",
		Collection:   "services",
		Schema:       schema.Service,
		PublicPath:   "/services",
		PublicFilter: bson.M{"is_active": bson.M{"$ne": false}},
		Sort:         bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}},
	}
	Team = Kind{
		Name:         "team",
		Label:        "Team member",
		Collection:   "team_members",
		Schema:       schema.TeamMember,
		PublicPath:   "/team",
		PublicFilter: bson.M{"is_active": bson.M{"$ne": false}},
		Sort:         bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}},
	}
	Portfolio = Kind{
		Name:       "portfolio",
		Label:      "Portfolio item",
		Collection: "portfolio_items",
		Schema:     schema.PortfolioItem,
		PublicPath: "/portfolio",
		Filters:    map[string]string{"category": "category", "featured": "featured"},
		Sort:       bson.D{{Key: "featured", Value: -1}, {Key: "order", Value: 1}, {Key: "created_at", Value: -1}},
	}
	Blog = Kind{
		Name:         "blog",
		Label:        "Blog post",
		Collection:   "blog_posts",
		Schema:       schema.BlogPost,
		PublicPath:   "/blog",
		PublicFilter: bson.M{"published": true},
		Filters:      map[string]string{"category": "category", "tag": "tags"},
		Sort:         bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}},
		HasSlug:      true,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("blog_posts_slug_unique")},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "published_at", Value: -1}}, Options: options.Index().SetName("blog_posts_published")},
		},
	}
	Jobs = Kind{
		Name:         "jobs",
		Label:        "Job posting",
		Collection:   "job_postings",
		Schema:       schema.JobPosting,
		PublicPath:   "/careers/jobs",
		PublicFilter: bson.M{"is_active": bson.M{"$ne": false}},
		Filters:      map[string]string{"department": "department", "type": "type"},
		Sort:         bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}},
		HasSlug:      true,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("job_postings_slug_unique")},
		},
	}
)

// PageSections is the (page, key) addressed collection
var PageSections = Kind{
	Name:       "pages",
	Label:      "Page section",
	Collection: "page_sections",
	Schema:     schema.PageSection,
	Sort:       bson.D{{Key: "page", Value: 1}, {Key: "key", Value: 1}},
	Indexes: []mongo.IndexModel{
		{Keys: bson.D{{Key: "page", Value: 1}, {Key: "key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("page_sections_page_key_unique")},
	},
}
