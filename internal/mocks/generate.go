// Package mocks provides gomock implementations of the ports interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	clients := mocks.NewMockClientFactory(ctrl)
//	client := mocks.NewMockClient(ctrl)
//	clients.EXPECT().Open(gomock.Any(), "").Return(client, nil)
//	client.EXPECT().Close().Return(nil)
package mocks

// Generate mocks for the protocol and session ports.
// Client: SendCode, SignIn, SignInPassword, Authorized, Payload, Self, Dialogs, Messages, Send, Close
// ClientFactory: Open
// SessionStore: Put, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/tgchat/internal/ports Client,ClientFactory,SessionStore
