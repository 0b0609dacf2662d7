package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLastTriggerInBurstFires(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)

	fired := make(chan string, 4)
	for _, label := range []string{"first", "second", "third", "last"} {
		label := label
		debouncer.Trigger(func() {
			fired <- label
		})
	}

	select {
	case got := <-fired:
		assert.Equal(t, "last", got)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never fired")
	}

	select {
	case got := <-fired:
		t.Fatalf("superseded trigger %q fired", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_TriggerAfterQuietPeriodFiresAgain(t *testing.T) {
	debouncer := NewDebouncer(10 * time.Millisecond)

	fired := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		debouncer.Trigger(func() {
			fired <- struct{}{}
		})
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("debounced callback never fired")
		}
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	debouncer := NewDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	debouncer.Trigger(func() {
		fired <- struct{}{}
	})
	debouncer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}
