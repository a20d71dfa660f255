package payment

import "log"

// Fallback degrades intent creation to the mock provider when the live
// processor is unreachable or rejects its credentials. Retrieval never falls
// back: a real intent id must be answered by the real processor.
type Fallback struct {
	Primary Provider
	Mock    *MockProvider
}

func (f *Fallback) CreateIntent(amount int64, metadata map[string]string) (Intent, error) {
	in, err := f.Primary.CreateIntent(amount, metadata)
	if err != nil && unreachable(err) {
		log.Printf("[payment] processor unreachable, issuing mock intent: %v", err)
		return f.Mock.CreateIntent(amount, metadata)
	}
	return in, err
}

func (f *Fallback) GetIntent(id string) (Intent, error) {
	if len(id) > len(MockPrefix) && id[:len(MockPrefix)] == MockPrefix {
		return f.Mock.GetIntent(id)
	}
	return f.Primary.GetIntent(id)
}
