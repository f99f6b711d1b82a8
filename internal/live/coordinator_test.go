package live

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/namsa/insights/internal/bus"
)

type recorder struct {
	refreshes int
	notices   []string
	err       error
}

func (r *recorder) refresh(context.Context) error {
	r.refreshes++
	return r.err
}

func (r *recorder) notify(msg string) {
	r.notices = append(r.notices, msg)
}

func newTestCoordinator(t *testing.T) (*bus.Memory, *recorder) {
	t.Helper()
	b := bus.NewMemory()
	rec := &recorder{}
	c := New(b, rec.refresh, rec.notify)
	c.Start()
	t.Cleanup(c.Stop)
	return b, rec
}

func TestCoordinator_MusicUpdateTriggersOneRefresh(t *testing.T) {
	b, rec := newTestCoordinator(t)

	b.Publish(UpdateChannel, `{"type":"music"}`)

	assert.Equal(t, 1, rec.refreshes)
	assert.Equal(t, []string{"Analytics refreshed"}, rec.notices)
}

func TestCoordinator_ProfileUpdateTriggersRefresh(t *testing.T) {
	b, rec := newTestCoordinator(t)

	b.Publish(UpdateChannel, `{"type":"profile"}`)

	assert.Equal(t, 1, rec.refreshes)
}

func TestCoordinator_PayloadFiltering(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unrelated kind", `{"type":"unrelated"}`},
		{"missing type field", `{"other":"music"}`},
		{"unparsable payload", `{{{not json`},
		{"empty payload", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rec := newTestCoordinator(t)

			b.Publish(UpdateChannel, tt.payload)

			assert.Zero(t, rec.refreshes)
			assert.Empty(t, rec.notices)
		})
	}
}

func TestCoordinator_IgnoresOtherChannels(t *testing.T) {
	b, rec := newTestCoordinator(t)

	b.Publish("namsa:other", `{"type":"music"}`)

	assert.Zero(t, rec.refreshes)
}

func TestCoordinator_StopReleasesSubscription(t *testing.T) {
	b := bus.NewMemory()
	rec := &recorder{}
	c := New(b, rec.refresh, rec.notify)

	c.Start()
	assert.Equal(t, 1, b.SubscriberCount(UpdateChannel))

	c.Stop()
	assert.Zero(t, b.SubscriberCount(UpdateChannel))

	b.Publish(UpdateChannel, `{"type":"music"}`)
	assert.Zero(t, rec.refreshes)

	// Stop twice is safe.
	c.Stop()
}

func TestCoordinator_StartTwiceSubscribesOnce(t *testing.T) {
	b := bus.NewMemory()
	rec := &recorder{}
	c := New(b, rec.refresh, rec.notify)
	defer c.Stop()

	c.Start()
	c.Start()

	assert.Equal(t, 1, b.SubscriberCount(UpdateChannel))
}

func TestCoordinator_FailedRefreshSkipsNotice(t *testing.T) {
	b := bus.NewMemory()
	rec := &recorder{err: errors.New("boom")}
	c := New(b, rec.refresh, rec.notify)
	c.Start()
	defer c.Stop()

	b.Publish(UpdateChannel, `{"type":"music"}`)

	assert.Equal(t, 1, rec.refreshes)
	assert.Empty(t, rec.notices)
}

func TestCoordinator_NilNotifier(t *testing.T) {
	b := bus.NewMemory()
	rec := &recorder{}
	c := New(b, rec.refresh, nil)
	c.Start()
	defer c.Stop()

	b.Publish(UpdateChannel, `{"type":"music"}`)

	assert.Equal(t, 1, rec.refreshes)
}
