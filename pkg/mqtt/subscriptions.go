package mqtt

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

type subscription struct {
	topic   string
	qos     byte
	handler pahomqtt.MessageHandler
}

// subscriptionSet remembers active subscriptions so they can be restored
// when a clean session reconnects
type subscriptionSet struct {
	mu   sync.Mutex
	subs map[string]subscription
}

func newSubscriptionSet() *subscriptionSet {
	return &subscriptionSet{subs: make(map[string]subscription)}
}

// add records a subscription, replacing any earlier one for the same filter
func (s *subscriptionSet) add(topic string, qos byte, handler pahomqtt.MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[topic] = subscription{topic: topic, qos: qos, handler: handler}
}

// all returns the recorded subscriptions ordered by topic filter
func (s *subscriptionSet) all() []subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].topic < out[j].topic })
	return out
}

// restore re-issues every recorded subscription on c. A failed filter does
// not stop the others; all failures are returned together.
func (s *subscriptionSet) restore(c pahomqtt.Client) error {
	var errs []error
	for _, sub := range s.all() {
		token := c.Subscribe(sub.topic, sub.qos, sub.handler)
		token.Wait()
		if err := token.Error(); err != nil {
			errs = append(errs, fmt.Errorf("resubscribe %s: %w", sub.topic, err))
		}
	}
	return errors.Join(errs...)
}
