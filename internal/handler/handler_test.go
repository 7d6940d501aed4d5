package handler

import (
	"fmt"
	"path/filepath"
	"testing"

	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/repository"
	"shin-chat-bot/internal/service"
)

// fakeContext implements the subset of tele.Context the handlers touch
// and records outgoing replies.
type fakeContext struct {
	tele.Context
	msg     *tele.Message
	args    []string
	bot     *tele.Bot
	replies []string
}

func (c *fakeContext) Message() *tele.Message { return c.msg }
func (c *fakeContext) Chat() *tele.Chat       { return c.msg.Chat }
func (c *fakeContext) Sender() *tele.User     { return c.msg.Sender }
func (c *fakeContext) Args() []string         { return c.args }
func (c *fakeContext) Bot() *tele.Bot         { return c.bot }

func (c *fakeContext) Reply(what interface{}, _ ...interface{}) error {
	c.replies = append(c.replies, fmt.Sprint(what))
	return nil
}

func newTestRewardService(t *testing.T) (*service.RewardService, *repository.UserRepository) {
	t.Helper()
	repo := repository.NewUserRepository(filepath.Join(t.TempDir(), "users_data.json"))
	return service.NewRewardService(repo, nil), repo
}
