package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"igprofile/pkg/models"
)

func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}

	prevOut, prevErr := Output, ErrOutput
	Output, ErrOutput = out, errOut
	t.Cleanup(func() {
		Output, ErrOutput = prevOut, prevErr
		SetQuietMode(false)
	})
	return out, errOut
}

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(title, _ string) error {
	r.titles = append(r.titles, title)
	return nil
}

func TestCommandSenderPlatforms(t *testing.T) {
	assert.NotNil(t, commandSender("linux"))
	assert.NotNil(t, commandSender("darwin"))
	assert.NotNil(t, commandSender("windows"))
	assert.Nil(t, commandSender("plan9"))

	cmd := notifyCommands["darwin"]("Scrape complete", `say "hi"`)
	assert.Equal(t, `display notification "say \"hi\"" with title "Scrape complete"`, cmd.Args[2])

	assert.Contains(t, windowsToast("it's", "done"), `'it''s'`)
}

func TestQuietModeKeepsErrors(t *testing.T) {
	out, errOut := captureOutput(t)
	SetQuietMode(true)

	PrintInfo("Username", "instagram")
	PrintSuccess("done")
	PrintWarning("careful")
	PrintError("Scrape failed", errors.New("timeout"))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Scrape failed: timeout")
}

func TestPrintProfileSummary(t *testing.T) {
	out, _ := captureOutput(t)

	PrintProfileSummary(&models.Profile{
		Username:       "instagram",
		FullName:       "Instagram",
		PostsCount:     1234,
		FollowersCount: 5,
		FollowingCount: 8,
		Posts: []models.Post{
			{Likes: 10, Comments: 2},
			{Likes: 5, Comments: 1},
		},
	})

	s := out.String()
	assert.Contains(t, s, "instagram")
	assert.Contains(t, s, "1234")
	assert.Contains(t, s, "2 (15 likes, 3 comments)")
}

func TestPostProgress(t *testing.T) {
	out, _ := captureOutput(t)

	p := NewPostProgress("instagram", 3)
	p.Start(0, "https://www.instagram.com/p/a/")
	p.Complete()
	p.Start(1, "https://www.instagram.com/p/b/")
	p.Fail("https://www.instagram.com/p/b/", errors.New("article not found"))
	p.Start(2, "https://www.instagram.com/p/c/")
	p.Complete()
	p.Finish()

	done, failed := p.Counts()
	assert.Equal(t, 3, done)
	assert.Equal(t, 1, failed)

	s := out.String()
	assert.Contains(t, s, "Processing post 1/3:")
	assert.Contains(t, s, "Processing post 3/3:")
	assert.Contains(t, s, "article not found")
	assert.Contains(t, s, "2/3 posts")
	assert.Contains(t, s, "1 failed")
}

func TestNotifierOnlySendsWhenEnabled(t *testing.T) {
	out, errOut := captureOutput(t)
	sender := &recordingSender{}

	disabled := &Notifier{send: sender.Send}
	disabled.SendSuccess("Scrape complete", "instagram")
	assert.Empty(t, sender.titles)
	assert.Contains(t, out.String(), "Scrape complete")

	enabled := &Notifier{send: sender.Send, enabled: true}
	enabled.SendError("Scrape failed", "instagram")
	assert.Equal(t, []string{"Scrape failed"}, sender.titles)
	assert.Contains(t, errOut.String(), "Scrape failed")
}
