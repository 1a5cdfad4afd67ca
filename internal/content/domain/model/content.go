package model

import (
	"time"

	"agency-cms/internal/shared/database"
)

// Service is an offering listed on the services page
type Service struct {
	database.Base `bson:",inline"`
	Title         string   `json:"title" bson:"title"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	Icon          string   `json:"icon,omitempty" bson:"icon,omitempty"`
	Image         string   `json:"image,omitempty" bson:"image,omitempty"`
	Features      []string `json:"features" bson:"features"`
	Price         string   `json:"price,omitempty" bson:"price,omitempty"`
	Order         int      `json:"order" bson:"order"`
	IsActive      bool     `json:"is_active" bson:"is_active"`
}

// TeamMember is a person on the team page
type TeamMember struct {
	database.Base `bson:",inline"`
	Name          string                 `json:"name" bson:"name"`
	Role          string                 `json:"role,omitempty" bson:"role,omitempty"`
	Bio           string                 `json:"bio,omitempty" bson:"bio,omitempty"`
	Image         string                 `json:"image,omitempty" bson:"image,omitempty"`
	SocialLinks   map[string]interface{} `json:"social_links,omitempty" bson:"social_links,omitempty"`
	Order         int                    `json:"order" bson:"order"`
	IsActive      bool                   `json:"is_active" bson:"is_active"`
}

// PortfolioItem is a showcased project
type PortfolioItem struct {
	database.Base `bson:",inline"`
	Title         string   `json:"title" bson:"title"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	Category      string   `json:"category,omitempty" bson:"category,omitempty"`
	Client        string   `json:"client,omitempty" bson:"client,omitempty"`
	Image         string   `json:"image,omitempty" bson:"image,omitempty"`
	Images        []string `json:"images" bson:"images"`
	Technologies  []string `json:"technologies" bson:"technologies"`
	ProjectURL    string   `json:"project_url,omitempty" bson:"project_url,omitempty"`
	Featured      bool     `json:"featured" bson:"featured"`
	Order         int      `json:"order" bson:"order"`
}

// BlogPost is an article; Content is markdown, ContentHTML its sanitized rendering
type BlogPost struct {
	database.Base `bson:",inline"`
	Title         string     `json:"title" bson:"title"`
	Slug          string     `json:"slug" bson:"slug"`
	Excerpt       string     `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Content       string     `json:"content,omitempty" bson:"content,omitempty"`
	ContentHTML   string     `json:"content_html,omitempty" bson:"content_html,omitempty"`
	Author        string     `json:"author,omitempty" bson:"author,omitempty"`
	Image         string     `json:"image,omitempty" bson:"image,omitempty"`
	Tags          []string   `json:"tags" bson:"tags"`
	Category      string     `json:"category,omitempty" bson:"category,omitempty"`
	Published     bool       `json:"published" bson:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`
}

// JobPosting is an opening on the careers page
type JobPosting struct {
	database.Base    `bson:",inline"`
	Title            string   `json:"title" bson:"title"`
	Slug             string   `json:"slug" bson:"slug"`
	Department       string   `json:"department,omitempty" bson:"department,omitempty"`
	Location         string   `json:"location,omitempty" bson:"location,omitempty"`
	Type             string   `json:"type,omitempty" bson:"type,omitempty"`
	Description      string   `json:"description,omitempty" bson:"description,omitempty"`
	Requirements     []string `json:"requirements" bson:"requirements"`
	Responsibilities []string `json:"responsibilities" bson:"responsibilities"`
	IsActive         bool     `json:"is_active" bson:"is_active"`
	Order            int      `json:"order" bson:"order"`
}

// PageSection is a CMS slot addressed by (page, key)
type PageSection struct {
	database.Base `bson:",inline"`
	Page          string                 `json:"page" bson:"page"`
	Key           string                 `json:"key" bson:"key"`
	Data          map[string]interface{} `json:"data" bson:"data"`
}

// Page is every section of one page, keyed and in order
type Page struct {
	Page     string                 `json:"page"`
	Sections map[string]interface{} `json:"sections"`
	Items    []PageSection          `json:"items"`
}
