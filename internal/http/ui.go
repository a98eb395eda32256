package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	domainauth "github.com/target/tgchat/internal/domain/auth"
	apperrors "github.com/target/tgchat/internal/errors"
	"github.com/target/tgchat/internal/service"
)

// UIHandlers serves the server-rendered pages. Forms post back to the same
// actions the JSON API uses.
type UIHandlers struct {
	T       *TemplateRenderer
	Auth    AuthActions
	Chat    ChatActions
	Cookies CookieConfig
	Logger  *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Root sends the browser to the chat list.
// GET /.
func (h *UIHandlers) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, chatsPath, http.StatusSeeOther)
}

// AuthPage shows the phone step.
// GET /auth.
func (h *UIHandlers) AuthPage(w http.ResponseWriter, _ *http.Request) {
	data := pageData(PageAuth)
	data.Flow = domainauth.FlowState{Step: domainauth.StepPhone}
	h.render(w, http.StatusOK, data)
}

// AuthSubmit advances the login flow by one step. The step, phone and temp
// token ride along in hidden fields.
// POST /auth.
func (h *UIHandlers) AuthSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAuth(w, domainauth.FlowState{Step: domainauth.StepPhone}, apperrors.Validation("invalid form"))
		return
	}
	flow := domainauth.FlowState{
		Step:      domainauth.FlowStep(r.PostFormValue("step")),
		Phone:     r.PostFormValue("phone"),
		TempToken: r.PostFormValue("temp_token"),
	}
	if !flow.Step.Valid() {
		flow.Step = domainauth.StepPhone
	}

	ctx := r.Context()
	switch flow.Step {
	case domainauth.StepPhone:
		res, err := h.Auth.StartLogin(ctx, flow.Phone)
		if err != nil {
			h.renderAuth(w, flow, err)
			return
		}
		h.renderAuth(w, flow.Next(res.TempToken, false), nil)
	case domainauth.StepCode:
		res, err := h.Auth.VerifyCode(ctx, service.VerifyCodeInput{
			TempToken: flow.TempToken,
			Phone:     flow.Phone,
			Code:      r.PostFormValue("code"),
		})
		h.finishLogin(w, r, flow, res, err)
	case domainauth.StepTwoFactor:
		res, err := h.Auth.VerifyTwoFactor(ctx, service.VerifyTwoFactorInput{
			TempToken: flow.TempToken,
			Password:  r.PostFormValue("password"),
		})
		h.finishLogin(w, r, flow, res, err)
	}
}

func (h *UIHandlers) finishLogin(
	w http.ResponseWriter,
	r *http.Request,
	flow domainauth.FlowState,
	res *service.LoginResult,
	err error,
) {
	if err != nil {
		h.renderAuth(w, flow, err)
		return
	}
	if res.NeedsTwoFactor {
		h.renderAuth(w, flow.Next(res.TempToken, true), nil)
		return
	}
	setSessionCookie(w, h.Cookies, res.SessionToken)
	http.Redirect(w, r, chatsPath, http.StatusSeeOther)
}

func (h *UIHandlers) renderAuth(w http.ResponseWriter, flow domainauth.FlowState, err error) {
	data := pageData(PageAuth)
	data.Flow = flow
	status := http.StatusOK
	if err != nil {
		data.Error = apperrors.Message(err)
		_, status = errorCode(err)
	}
	h.render(w, status, data)
}

// Logout forgets the session and returns to the login page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		h.Auth.Logout(r.Context(), token)
	}
	clearSessionCookie(w, h.Cookies)
	http.Redirect(w, r, authPath, http.StatusSeeOther)
}

// Chats shows the profile header and dialog list.
// GET /chats.
func (h *UIHandlers) Chats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := sessionToken(r)
	data := pageData(PageChats)

	profile, err := h.Chat.GetProfile(ctx, token)
	if err != nil {
		h.renderErr(w, data, err)
		return
	}
	data.Profile = &profile

	dialogs, err := h.Chat.ListDialogs(ctx, token, 0)
	if err != nil {
		h.renderErr(w, data, err)
		return
	}
	data.Dialogs = dialogs
	h.render(w, http.StatusOK, data)
}

// ChatPage shows one conversation, oldest message first, with a send form.
// GET /chats/{id}.
func (h *UIHandlers) ChatPage(w http.ResponseWriter, r *http.Request) {
	data := h.chatData(r)
	msgs, err := h.Chat.ListMessages(r.Context(), sessionToken(r), data.ChatID, 0)
	if err != nil {
		h.renderErr(w, data, err)
		return
	}
	slices.Reverse(msgs)
	data.Messages = msgs
	h.render(w, http.StatusOK, data)
}

// ChatSend posts the form text to the conversation and redirects back to it.
// POST /chats/{id}.
func (h *UIHandlers) ChatSend(w http.ResponseWriter, r *http.Request) {
	data := h.chatData(r)
	if _, err := h.Chat.SendMessage(r.Context(), sessionToken(r), data.ChatID, r.PostFormValue("text")); err != nil {
		h.renderErr(w, data, err)
		return
	}
	http.Redirect(w, r, chatURL(data.ChatID, data.ChatTitle), http.StatusSeeOther)
}

func (h *UIHandlers) chatData(r *http.Request) PageData {
	data := pageData(PageChat)
	data.ChatID = r.PathValue("id")
	data.ChatTitle = r.URL.Query().Get("title")
	if data.ChatTitle == "" {
		data.ChatTitle = data.ChatID
	}
	data.Title = data.ChatTitle
	return data
}

func chatURL(id, title string) string {
	u := url.URL{Path: chatsPath + "/" + id}
	if title != "" && title != id {
		u.RawQuery = url.Values{"title": {title}}.Encode()
	}
	return u.String()
}

func (h *UIHandlers) renderErr(w http.ResponseWriter, data PageData, err error) {
	h.logger().Warn("page action failed", "page", data.CurrentPage, "error", err)
	data.Error = apperrors.Message(err)
	_, status := errorCode(err)
	h.render(w, status, data)
}

func (h *UIHandlers) render(w http.ResponseWriter, status int, data PageData) {
	if err := h.T.RenderFull(w, status, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
