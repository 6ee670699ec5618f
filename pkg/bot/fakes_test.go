package bot

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
)

// fakePlatform records every outbound platform operation. Message ids are
// assigned sequentially from 100. Deleting an id twice fails like the
// real platform does for an absent message.
type fakePlatform struct {
	mu     sync.Mutex
	nextID int

	sent     []fakeMessage
	controls []fakeControl
	edits    map[int]string
	deleted  map[int]bool
	acked    []string

	failSendOn int // ordinal of the SendText call to fail, 0 = never
	sendCalls  int
}

type fakeMessage struct {
	ChatID int64
	ID     int
	Text   string
}

type fakeControl struct {
	ChatID int64
	ID     int
	Text   string
	Rows   [][]Button
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:  100,
		edits:   map[int]string{},
		deleted: map[int]bool{},
	}
}

func (p *fakePlatform) SendText(chatID int64, text string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendCalls++
	if p.failSendOn != 0 && p.sendCalls == p.failSendOn {
		return 0, errors.New("send failed")
	}
	p.nextID++
	p.sent = append(p.sent, fakeMessage{ChatID: chatID, ID: p.nextID, Text: text})
	return p.nextID, nil
}

func (p *fakePlatform) SendWithControl(chatID int64, text string, rows [][]Button) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.controls = append(p.controls, fakeControl{ChatID: chatID, ID: p.nextID, Text: text, Rows: rows})
	return p.nextID, nil
}

func (p *fakePlatform) EditText(chatID int64, messageID int, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted[messageID] {
		return errors.New("message not found")
	}
	p.edits[messageID] = text
	return nil
}

func (p *fakePlatform) Delete(chatID int64, messageID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted[messageID] {
		return errors.New("message already deleted")
	}
	p.deleted[messageID] = true
	return nil
}

func (p *fakePlatform) Acknowledge(callbackID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acked = append(p.acked, callbackID)
	return nil
}

// textOf returns the text of a sent message by id, "" if unknown.
func (p *fakePlatform) textOf(messageID int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if text, ok := p.edits[messageID]; ok {
		return text
	}
	for _, m := range p.sent {
		if m.ID == messageID {
			return m.Text
		}
	}
	return ""
}

// fakeClient implements chatbot.Client with overridable behavior and call
// recording.
type fakeClient struct {
	mu sync.Mutex

	generation *chatbot.Generation
	generate   func() (*chatbot.Generation, error)

	createUserCalls   []string
	registered        map[string][]string // answerID -> message ids
	persistCalls      []persistCall
	persistText       string
	persistErr        error
	customCalls       []customCall
	customErr         error
	removeResponse    string
	clearResponse     string
	user              *chatbot.User
	registerCandidErr error
}

type persistCall struct {
	UserID    string
	AnswerID  string
	MessageID string
}

type customCall struct {
	UserID     string
	MessageID  string
	CustomText string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		registered:  map[string][]string{},
		persistText: "canonical",
	}
}

var _ chatbot.Client = (*fakeClient)(nil)

func (f *fakeClient) CreateUser(_ context.Context, userID, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createUserCalls = append(f.createUserCalls, userID)
	return nil
}

func (f *fakeClient) GetUser(_ context.Context, _ string) (*chatbot.User, error) {
	if f.user == nil {
		return &chatbot.User{}, nil
	}
	return f.user, nil
}

func (f *fakeClient) RemoveUser(_ context.Context, _ string) (string, error) {
	return f.removeResponse, nil
}

func (f *fakeClient) ClearHistory(_ context.Context, _ string) (string, error) {
	return f.clearResponse, nil
}

func (f *fakeClient) Generate(_ context.Context, _, _ string) (*chatbot.Generation, error) {
	if f.generate != nil {
		return f.generate()
	}
	return f.generation, nil
}

func (f *fakeClient) RegisterCandidates(_ context.Context, _, answerID string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerCandidErr != nil {
		return f.registerCandidErr
	}
	f.registered[answerID] = messageIDs
	return nil
}

func (f *fakeClient) PersistChoice(_ context.Context, userID, answerID, messageID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persistCalls = append(f.persistCalls, persistCall{UserID: userID, AnswerID: answerID, MessageID: messageID})
	if f.persistErr != nil {
		return "", f.persistErr
	}
	return f.persistText, nil
}

func (f *fakeClient) SetCustomAnswer(_ context.Context, userID, messageID, customText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customErr != nil {
		return f.customErr
	}
	f.customCalls = append(f.customCalls, customCall{UserID: userID, MessageID: messageID, CustomText: customText})
	return nil
}
