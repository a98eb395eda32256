package httpx

import (
	domainauth "github.com/target/tgchat/internal/domain/auth"
	"github.com/target/tgchat/internal/domain/model"
)

// PageData is the view model handed to the layout and page templates.
type PageData struct {
	Title       string
	CurrentPage string
	// Error is an action error, shown verbatim.
	Error string

	// auth page
	Flow domainauth.FlowState

	// chats page
	Profile *model.Profile
	Dialogs []model.Dialog

	// chat page
	ChatID    string
	ChatTitle string
	Messages  []model.Message
}

// pageData starts a PageData for page with its default title.
func pageData(page string) PageData {
	titles := map[string]string{
		PageAuth:  "Sign in",
		PageChats: "Chats",
		PageChat:  "Chat",
	}
	return PageData{Title: titles[page], CurrentPage: page}
}
