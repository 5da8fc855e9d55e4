package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portbridge/internal/bridge"
	"portbridge/internal/service"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_PreservesSubmitOrder(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	d := bridge.NewDispatcher(func(cmd bridge.Command) error {
		mu.Lock()
		defer mu.Unlock()
		switch c := cmd.(type) {
		case bridge.SetPreventClose:
			got = append(got, fmt.Sprintf("close:%v", c.Prevent))
		case bridge.SetFavicon:
			got = append(got, "favicon:"+c.Status.String())
		}
		return nil
	}, &service.MockLogger{}, 4)

	go d.Run(context.Background())

	d.Submit(bridge.ChannelSetPreventClose, true)
	d.Submit(bridge.ChannelSetFavicon, "play")
	d.Submit(bridge.ChannelSetPreventClose, false)
	d.Submit(bridge.ChannelSetFavicon, "stop")
	d.Close()
	waitDone(t, d.Done())

	assert.Equal(t, []string{"close:true", "favicon:play", "close:false", "favicon:stop"}, got)
}

func TestDispatcher_HandlerErrorLogged(t *testing.T) {
	log := &service.MockLogger{}
	d := bridge.NewDispatcher(func(bridge.Command) error {
		return errors.New("disk full")
	}, log, 0)

	go d.Run(context.Background())
	d.Submit(bridge.ChannelSetPreventClose, true)
	d.Close()
	waitDone(t, d.Done())

	assert.True(t, log.Contains("error", "disk full"))
}

func TestDispatcher_HandlerPanicRecovered(t *testing.T) {
	log := &service.MockLogger{}
	calls := 0
	d := bridge.NewDispatcher(func(bridge.Command) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return nil
	}, log, 0)

	go d.Run(context.Background())
	d.Submit(bridge.ChannelSetPreventClose, true)
	d.Submit(bridge.ChannelSetPreventClose, false)
	d.Close()
	waitDone(t, d.Done())

	assert.Equal(t, 2, calls)
	assert.True(t, log.Contains("error", "boom"))
}

func TestDispatcher_SubmitAfterClose(t *testing.T) {
	d := bridge.NewDispatcher(func(bridge.Command) error { return nil }, &service.MockLogger{}, 0)
	go d.Run(context.Background())

	d.Close()
	d.Close()
	waitDone(t, d.Done())

	assert.False(t, d.Submit(bridge.ChannelSetFavicon, "play"))
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	d := bridge.NewDispatcher(func(bridge.Command) error { return nil }, &service.MockLogger{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	go d.Run(ctx)
	cancel()
	waitDone(t, d.Done())

	require.False(t, d.Submit(bridge.ChannelSetFavicon, "play"))
	require.False(t, d.Submit(bridge.ChannelSetFavicon, "stop"))
}

func TestDispatcher_DoRunsAfterQueuedMessages(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	d := bridge.NewDispatcher(func(cmd bridge.Command) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, cmd.Channel())
		return nil
	}, &service.MockLogger{}, 8)

	require.True(t, d.Submit(bridge.ChannelSetPreventClose, true))
	require.True(t, d.Submit(bridge.ChannelSetFavicon, "play"))
	go d.Run(context.Background())

	require.NoError(t, d.Do(context.Background(), func() {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, "do")
	}))

	mu.Lock()
	assert.Equal(t, []string{bridge.ChannelSetPreventClose, bridge.ChannelSetFavicon, "do"}, got)
	mu.Unlock()

	d.Close()
	waitDone(t, d.Done())
	assert.ErrorIs(t, d.Do(context.Background(), func() {}), bridge.ErrStopped)
}
