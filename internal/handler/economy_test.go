package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/pkg/lock"
)

// runWithWatchdog fails the test if fn does not return promptly, so a
// locking regression shows up as a failure instead of a hung run.
func runWithWatchdog(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return, user lock deadlocked")
	}
}

func selfTargetContext(user *tele.User, args ...string) *fakeContext {
	return &fakeContext{
		msg: &tele.Message{
			Sender:  user,
			Chat:    &tele.Chat{ID: -100, Type: tele.ChatGroup, Title: "g"},
			ReplyTo: &tele.Message{Sender: user, Text: "mine"},
		},
		args: args,
	}
}

func TestHandleStealSelfTargetRefusedWithoutDeadlock(t *testing.T) {
	reward, repo := newTestRewardService(t)
	repo.ChangeCoin(7, 100)
	ul := lock.NewUserLock()
	h := NewEconomyHandler(reward, ul)

	user := &tele.User{ID: 7, FirstName: "Maanav"}
	c := selfTargetContext(user, "50")

	runWithWatchdog(t, func() {
		require.NoError(t, h.HandleSteal(c))
	})

	require.Len(t, c.replies, 1)
	assert.Equal(t, "tu apne ghar se chori karega .gali du", c.replies[0])
	assert.Equal(t, int64(100), reward.Balance(7), "self-theft changes nothing")

	// The user's lock must be free again for the next command.
	runWithWatchdog(t, func() {
		ul.Lock(7)
		ul.Unlock(7)
	})
}

func TestHandleGiveSelfTargetCompletesWithoutDeadlock(t *testing.T) {
	reward, repo := newTestRewardService(t)
	repo.ChangeCoin(7, 500)
	ul := lock.NewUserLock()
	h := NewEconomyHandler(reward, ul)

	user := &tele.User{ID: 7, FirstName: "Maanav"}
	c := selfTargetContext(user, "100")

	runWithWatchdog(t, func() {
		require.NoError(t, h.HandleGive(c))
	})

	// Gifting yourself is allowed but taxed: -100 then +80.
	assert.Equal(t, int64(480), reward.Balance(7))
}

func TestHandleStealWithoutReplyAsksForOne(t *testing.T) {
	reward, _ := newTestRewardService(t)
	h := NewEconomyHandler(reward, lock.NewUserLock())

	c := &fakeContext{
		msg: &tele.Message{
			Sender: &tele.User{ID: 7, FirstName: "Maanav"},
			Chat:   &tele.Chat{ID: -100, Type: tele.ChatGroup},
		},
		args: []string{"50"},
	}

	require.NoError(t, h.HandleSteal(c))
	require.Len(t, c.replies, 1)
	assert.Equal(t, "Reply to a user's message with /steal <amount>", c.replies[0])
}
