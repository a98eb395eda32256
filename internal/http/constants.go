package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageAuth  = "auth"
	PageChats = "chats"
	PageChat  = "chat"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "web/templates"       // From project root
	TemplatePathFromTest = "../../web/templates" // From internal/http test files
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageAuth:  "auth-content",
	PageChats: "chats-content",
	PageChat:  "chat-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to chats-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "chats-content"
}
