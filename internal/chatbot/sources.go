package chatbot

import (
	"fmt"
	"strings"

	"agency-cms/internal/chatbot/usecase"
	"agency-cms/internal/content"
	contentmodel "agency-cms/internal/content/domain/model"
	"agency-cms/internal/shared/text"
)

const summaryLength = 300

// contentSources lists the content blocks given to the assistant
func contentSources(cm *content.ContentModule) []usecase.Source {
	return []usecase.Source{
		usecase.RecentSource[contentmodel.Service]("Services", cm.Services, 10, serviceLine),
		usecase.RecentSource[contentmodel.BlogPost]("Recent blog posts", cm.Blog, 5, blogLine),
		usecase.RecentSource[contentmodel.PortfolioItem]("Portfolio", cm.Portfolio, 5, portfolioLine),
		usecase.RecentSource[contentmodel.TeamMember]("Team", cm.Team, 10, teamLine),
	}
}

func serviceLine(s contentmodel.Service) string {
	line := s.Title
	if d := summary(s.Description); d != "" {
		line += ": " + d
	}
	if s.Price != "" {
		line += " (from " + s.Price + ")"
	}
	return line
}

func blogLine(p contentmodel.BlogPost) string {
	body := p.Excerpt
	if body == "" {
		body = p.Content
	}
	if d := summary(body); d != "" {
		return p.Title + ": " + d
	}
	return p.Title
}

func portfolioLine(p contentmodel.PortfolioItem) string {
	line := p.Title
	if p.Client != "" {
		line += " for " + p.Client
	}
	if p.Category != "" {
		line = fmt.Sprintf("%s [%s]", line, p.Category)
	}
	if len(p.Technologies) > 0 {
		line += " using " + strings.Join(p.Technologies, ", ")
	}
	if d := summary(p.Description); d != "" {
		line += ": " + d
	}
	return line
}

func teamLine(m contentmodel.TeamMember) string {
	if m.Role == "" {
		return m.Name
	}
	return m.Name + ", " + m.Role
}

func summary(markdown string) string {
	return text.Truncate(text.PlainText(markdown), summaryLength)
}
