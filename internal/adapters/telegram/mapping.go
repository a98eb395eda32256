package telegram

import (
	"fmt"
	"time"

	"github.com/gotd/td/tg"

	"github.com/target/tgchat/internal/domain/model"
)

func profileFromUser(u *tg.User) model.Profile {
	return model.Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Phone:     u.Phone,
		Bot:       u.Bot,
	}
}

func inputPeer(ref model.PeerRef) (tg.InputPeerClass, error) {
	switch ref.Kind {
	case model.PeerUser:
		return &tg.InputPeerUser{UserID: ref.ID, AccessHash: ref.AccessHash}, nil
	case model.PeerChat:
		return &tg.InputPeerChat{ChatID: ref.ID}, nil
	case model.PeerChannel:
		return &tg.InputPeerChannel{ChannelID: ref.ID, AccessHash: ref.AccessHash}, nil
	default:
		return nil, fmt.Errorf("peer kind %q needs resolving", ref.Kind)
	}
}

// refFromInputPeer is the inverse of inputPeer for resolved usernames.
func refFromInputPeer(p tg.InputPeerClass) (model.PeerRef, bool) {
	switch p := p.(type) {
	case *tg.InputPeerUser:
		return model.PeerRef{Kind: model.PeerUser, ID: p.UserID, AccessHash: p.AccessHash}, true
	case *tg.InputPeerChat:
		return model.PeerRef{Kind: model.PeerChat, ID: p.ChatID}, true
	case *tg.InputPeerChannel:
		return model.PeerRef{Kind: model.PeerChannel, ID: p.ChannelID, AccessHash: p.AccessHash}, true
	default:
		return model.PeerRef{}, false
	}
}

type peerKey struct {
	kind model.PeerKind
	id   int64
}

func keyOf(p tg.PeerClass) (peerKey, bool) {
	switch p := p.(type) {
	case *tg.PeerUser:
		return peerKey{model.PeerUser, p.UserID}, true
	case *tg.PeerChat:
		return peerKey{model.PeerChat, p.ChatID}, true
	case *tg.PeerChannel:
		return peerKey{model.PeerChannel, p.ChannelID}, true
	default:
		return peerKey{}, false
	}
}

// entities indexes the users and chats that accompany a dialogs response.
type entities struct {
	users    map[int64]*tg.User
	chats    map[int64]*tg.Chat
	channels map[int64]*tg.Channel
}

func newEntities(users []tg.UserClass, chats []tg.ChatClass) entities {
	e := entities{
		users:    make(map[int64]*tg.User, len(users)),
		chats:    make(map[int64]*tg.Chat),
		channels: make(map[int64]*tg.Channel),
	}
	for _, u := range users {
		if u, ok := u.(*tg.User); ok {
			e.users[u.ID] = u
		}
	}
	for _, c := range chats {
		switch c := c.(type) {
		case *tg.Chat:
			e.chats[c.ID] = c
		case *tg.Channel:
			e.channels[c.ID] = c
		}
	}
	return e
}

// describe fills the identity fields of a dialog. Peers missing from the
// response are skipped since they cannot be addressed without an access hash.
func (e entities) describe(k peerKey) (model.Dialog, bool) {
	switch k.kind {
	case model.PeerUser:
		u, ok := e.users[k.id]
		if !ok {
			return model.Dialog{}, false
		}
		ref := model.PeerRef{Kind: model.PeerUser, ID: u.ID, AccessHash: u.AccessHash}
		title := profileFromUser(u).DisplayName()
		if title == "" {
			title = "Unknown"
		}
		return model.Dialog{ID: ref.String(), Kind: model.DialogUser, Title: title, Username: u.Username}, true
	case model.PeerChat:
		c, ok := e.chats[k.id]
		if !ok {
			return model.Dialog{}, false
		}
		ref := model.PeerRef{Kind: model.PeerChat, ID: c.ID}
		return model.Dialog{ID: ref.String(), Kind: model.DialogGroup, Title: c.Title}, true
	case model.PeerChannel:
		c, ok := e.channels[k.id]
		if !ok {
			return model.Dialog{}, false
		}
		ref := model.PeerRef{Kind: model.PeerChannel, ID: c.ID, AccessHash: c.AccessHash}
		kind := model.DialogChannel
		if c.Megagroup {
			kind = model.DialogGroup
		}
		return model.Dialog{ID: ref.String(), Kind: kind, Title: c.Title, Username: c.Username}, true
	}
	return model.Dialog{}, false
}

type messageKey struct {
	peer peerKey
	id   int
}

func mapDialogs(dialogs []tg.DialogClass, messages []tg.MessageClass, chats []tg.ChatClass, users []tg.UserClass) []model.Dialog {
	e := newEntities(users, chats)

	last := make(map[messageKey]*tg.Message, len(messages))
	for _, m := range messages {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		if k, ok := keyOf(msg.PeerID); ok {
			last[messageKey{k, msg.ID}] = msg
		}
	}

	out := make([]model.Dialog, 0, len(dialogs))
	for _, d := range dialogs {
		dlg, ok := d.(*tg.Dialog)
		if !ok {
			continue
		}
		k, ok := keyOf(dlg.Peer)
		if !ok {
			continue
		}
		item, ok := e.describe(k)
		if !ok {
			continue
		}
		item.Unread = dlg.UnreadCount
		if msg, ok := last[messageKey{k, dlg.TopMessage}]; ok {
			item.LastMessage = msg.Message
			item.LastAt = unixTime(msg.Date)
		}
		out = append(out, item)
	}
	return out
}

func mapMessages(messages []tg.MessageClass, chatID string) []model.Message {
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		out = append(out, mapMessage(msg, chatID))
	}
	return out
}

func mapMessage(msg *tg.Message, chatID string) model.Message {
	out := model.Message{
		ID:       msg.ID,
		ChatID:   chatID,
		Text:     msg.Message,
		Outgoing: msg.Out,
		SentAt:   unixTime(msg.Date),
	}
	if from, ok := msg.GetFromID(); ok {
		if u, ok := from.(*tg.PeerUser); ok {
			out.SenderID = u.UserID
		}
	} else if u, ok := msg.PeerID.(*tg.PeerUser); ok && !msg.Out {
		out.SenderID = u.UserID
	}
	return out
}

// sentMessage extracts the id and date of the message created by a send.
func sentMessage(updates tg.UpdatesClass) (int, time.Time) {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, unixTime(u.Date)
	case *tg.Updates:
		return sentFromUpdates(u.Updates, u.Date)
	case *tg.UpdatesCombined:
		return sentFromUpdates(u.Updates, u.Date)
	}
	return 0, time.Now().UTC()
}

func sentFromUpdates(list []tg.UpdateClass, date int) (int, time.Time) {
	for _, upd := range list {
		switch upd := upd.(type) {
		case *tg.UpdateNewMessage:
			if msg, ok := upd.Message.(*tg.Message); ok {
				return msg.ID, unixTime(msg.Date)
			}
		case *tg.UpdateNewChannelMessage:
			if msg, ok := upd.Message.(*tg.Message); ok {
				return msg.ID, unixTime(msg.Date)
			}
		case *tg.UpdateMessageID:
			return upd.ID, unixTime(date)
		}
	}
	return 0, unixTime(date)
}

func unixTime(sec int) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}
