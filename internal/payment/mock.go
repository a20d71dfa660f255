package payment

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockProvider synthesizes intents locally so checkout works end-to-end in
// environments without payment credentials.
type MockProvider struct {
	mu      sync.Mutex
	intents map[string]Intent
}

func NewMockProvider() *MockProvider {
	return &MockProvider{intents: map[string]Intent{}}
}

func (p *MockProvider) CreateIntent(amount int64, metadata map[string]string) (Intent, error) {
	id := MockPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	in := Intent{
		ID:           id,
		ClientSecret: id + "_secret_mock",
		Status:       "requires_payment_method",
		Amount:       amount,
		Metadata:     metadata,
		TestMode:     true,
	}
	p.mu.Lock()
	p.intents[id] = in
	p.mu.Unlock()
	return in, nil
}

func (p *MockProvider) GetIntent(id string) (Intent, error) {
	p.mu.Lock()
	in, ok := p.intents[id]
	p.mu.Unlock()
	if !ok {
		return Intent{}, ErrIntentNotFound
	}
	return in, nil
}
