package schema

// Schema names
const (
	AdminLogin          = "admin_login"
	AdminCredentials    = "admin_credentials"
	AdminChangePassword = "admin_change_password"
	Contact             = "contact"
	Inquiry             = "inquiry"
	JobApplication      = "job_application"
	Subscribe           = "subscribe"
	ReadFlag            = "read_flag"
	ChatbotMessage      = "chatbot_message"
	Service             = "service"
	TeamMember          = "team_member"
	PortfolioItem       = "portfolio_item"
	BlogPost            = "blog_post"
	JobPosting          = "job_posting"
	PageSection         = "page_section"
)

// MinPasswordLength applies to every password an admin sets
const MinPasswordLength = 8

var JobTypes = []string{"full-time", "part-time", "contract", "internship", "remote"}

func init() {
	Register(&Schema{Name: AdminLogin, Fields: []Field{
		{Name: "email", Type: TypeEmail, Required: true},
		{Name: "password", Type: TypeString, Required: true, MaxLength: 200},
	}})
	Register(&Schema{Name: AdminCredentials, Fields: []Field{
		{Name: "email", Type: TypeEmail},
		{Name: "name", Type: TypeString, MaxLength: 100},
		{Name: "password", Type: TypeString, MinLength: MinPasswordLength, MaxLength: 200},
	}})
	Register(&Schema{Name: AdminChangePassword, Fields: []Field{
		{Name: "currentPassword", Type: TypeString, Required: true, MaxLength: 200},
		{Name: "newPassword", Type: TypeString, Required: true, MinLength: MinPasswordLength, MaxLength: 200},
	}})

	Register(&Schema{Name: Contact, Fields: []Field{
		{Name: "name", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "email", Type: TypeEmail, Required: true},
		{Name: "phone", Type: TypeString, MaxLength: 30},
		{Name: "subject", Type: TypeString, MaxLength: 200},
		{Name: "service", Type: TypeString, MaxLength: 100},
		{Name: "message", Type: TypeText, Required: true, MaxLength: 5000},
	}})
	Register(&Schema{Name: Inquiry, Fields: []Field{
		{Name: "name", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "email", Type: TypeEmail, Required: true},
		{Name: "phone", Type: TypeString, MaxLength: 30},
		{Name: "company", Type: TypeString, MaxLength: 150},
		{Name: "service", Type: TypeString, MaxLength: 100},
		{Name: "budget", Type: TypeString, MaxLength: 100},
		{Name: "message", Type: TypeText, Required: true, MaxLength: 5000},
	}})
	Register(&Schema{Name: JobApplication, Fields: []Field{
		{Name: "job_title", Type: TypeString, Required: true, MaxLength: 200},
		{Name: "name", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "email", Type: TypeEmail, Required: true},
		{Name: "phone", Type: TypeString, MaxLength: 30},
		{Name: "resume_url", Type: TypeURL, MaxLength: 2000},
		{Name: "portfolio_url", Type: TypeURL, MaxLength: 2000},
		{Name: "cover_letter", Type: TypeText, MaxLength: 10000},
	}})
	Register(&Schema{Name: Subscribe, Fields: []Field{
		{Name: "email", Type: TypeEmail, Required: true},
	}})
	Register(&Schema{Name: ReadFlag, Fields: []Field{
		{Name: "read", Type: TypeBool},
	}})
	Register(&Schema{Name: ChatbotMessage, Fields: []Field{
		{Name: "message", Type: TypeText, Required: true, MaxLength: 2000},
		{Name: "conversationHistory", Type: TypeObjectList},
	}})

	Register(&Schema{Name: Service, Fields: []Field{
		{Name: "title", Type: TypeString, Required: true, MaxLength: 200},
		{Name: "description", Type: TypeText, MaxLength: 5000},
		{Name: "icon", Type: TypeString, MaxLength: 100},
		{Name: "image", Type: TypeURL, MaxLength: 2000},
		{Name: "features", Type: TypeStringList},
		{Name: "price", Type: TypeString, MaxLength: 100},
		{Name: "order", Type: TypeInt, Default: 0},
		{Name: "is_active", Type: TypeBool, Default: true},
	}})
	Register(&Schema{Name: TeamMember, Fields: []Field{
		{Name: "name", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "role", Type: TypeString, MaxLength: 100},
		{Name: "bio", Type: TypeText, MaxLength: 5000},
		{Name: "image", Type: TypeURL, MaxLength: 2000},
		{Name: "social_links", Type: TypeObject},
		{Name: "order", Type: TypeInt, Default: 0},
		{Name: "is_active", Type: TypeBool, Default: true},
	}})
	Register(&Schema{Name: PortfolioItem, Fields: []Field{
		{Name: "title", Type: TypeString, Required: true, MaxLength: 200},
		{Name: "description", Type: TypeText, MaxLength: 10000},
		{Name: "category", Type: TypeString, MaxLength: 100},
		{Name: "client", Type: TypeString, MaxLength: 150},
		{Name: "image", Type: TypeURL, MaxLength: 2000},
		{Name: "images", Type: TypeStringList},
		{Name: "technologies", Type: TypeStringList},
		{Name: "project_url", Type: TypeURL, MaxLength: 2000},
		{Name: "featured", Type: TypeBool, Default: false},
		{Name: "order", Type: TypeInt, Default: 0},
	}})
	Register(&Schema{Name: BlogPost, Fields: []Field{
		{Name: "title", Type: TypeString, Required: true, MaxLength: 250},
		{Name: "slug", Type: TypeString, MaxLength: 250},
		{Name: "excerpt", Type: TypeText, MaxLength: 1000},
		{Name: "content", Type: TypeText, MaxLength: 100000},
		{Name: "author", Type: TypeString, MaxLength: 100},
		{Name: "image", Type: TypeURL, MaxLength: 2000},
		{Name: "tags", Type: TypeStringList},
		{Name: "category", Type: TypeString, MaxLength: 100},
		{Name: "published", Type: TypeBool, Default: false},
	}})
	Register(&Schema{Name: JobPosting, Fields: []Field{
		{Name: "title", Type: TypeString, Required: true, MaxLength: 200},
		{Name: "slug", Type: TypeString, MaxLength: 250},
		{Name: "department", Type: TypeString, MaxLength: 100},
		{Name: "location", Type: TypeString, MaxLength: 150},
		{Name: "type", Type: TypeString, Enum: JobTypes, Default: "full-time"},
		{Name: "description", Type: TypeText, MaxLength: 20000},
		{Name: "requirements", Type: TypeStringList},
		{Name: "responsibilities", Type: TypeStringList},
		{Name: "is_active", Type: TypeBool, Default: true},
		{Name: "order", Type: TypeInt, Default: 0},
	}})
	Register(&Schema{Name: PageSection, Fields: []Field{
		{Name: "page", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "key", Type: TypeString, Required: true, MaxLength: 100},
		{Name: "data", Type: TypeObject, Required: true},
	}})
}
