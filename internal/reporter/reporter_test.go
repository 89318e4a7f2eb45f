package reporter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sentMessage struct {
	chatID, text, parseMode string
}

func fakeTelegram(t *testing.T, failSend bool) (*httptest.Server, *[]sentMessage) {
	t.Helper()
	var (
		mu   sync.Mutex
		sent []sentMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"crawler","username":"crawler_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if failSend {
				_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities"}`))
				return
			}
			mu.Lock()
			sent = append(sent, sentMessage{
				chatID:    r.PostForm.Get("chat_id"),
				text:      r.PostForm.Get("text"),
				parseMode: r.PostForm.Get("parse_mode"),
			})
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &sent
}

func TestTelegram_Notifications(t *testing.T) {
	srv, sent := fakeTelegram(t, false)
	tg, err := NewTelegramWithClient("token", 42, "Liepin", srv.URL+"/bot%s/%s", srv.Client(), zap.NewNop())
	require.NoError(t, err)

	tg.PageSaved(2, 31)
	tg.PersistFailed(errors.New("open jobs.xlsx: permission denied"))
	tg.Finished("3 pages, 31 records -> jobs.xlsx")

	require.Len(t, *sent, 3)
	for _, m := range *sent {
		assert.Equal(t, "42", m.chatID)
		assert.Equal(t, "MarkdownV2", m.parseMode)
	}
	assert.Equal(t, "💾 *Liepin* page 2 saved\n📦 31 records so far", (*sent)[0].text)
	assert.Equal(t, "⚠️ *Liepin* failed to save results:\nopen jobs\\.xlsx: permission denied", (*sent)[1].text)
	assert.Equal(t, "🏁 *Liepin* crawl finished\n3 pages, 31 records \\-\\> jobs\\.xlsx", (*sent)[2].text)
}

func TestTelegram_SendFailureIsLogged(t *testing.T) {
	srv, _ := fakeTelegram(t, true)
	core, logs := observer.New(zap.WarnLevel)
	tg, err := NewTelegramWithClient("token", 42, "Boss", srv.URL+"/bot%s/%s", srv.Client(), zap.New(core))
	require.NoError(t, err)

	tg.PageSaved(1, 1)

	assert.Equal(t, 1, logs.FilterMessage("⚠️ Telegram notification failed").Len())
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "15\\-25k \\(13薪\\)\\!", EscapeMarkdown("15-25k (13薪)!"))
	assert.Equal(t, "plain", EscapeMarkdown("plain"))
	assert.Equal(t, `C:\\jobs\\out\.xlsx`, EscapeMarkdown(`C:\jobs\out.xlsx`))
}

type recorder struct {
	pages    []int
	failures []error
	finished []string
}

func (r *recorder) PageSaved(page, _ int)   { r.pages = append(r.pages, page) }
func (r *recorder) PersistFailed(err error) { r.failures = append(r.failures, err) }
func (r *recorder) Finished(summary string) { r.finished = append(r.finished, summary) }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	core, logs := observer.New(zap.InfoLevel)
	m := Multi{a, nil, b, NewLog(zap.New(core))}

	m.PageSaved(1, 10)
	m.PersistFailed(errors.New("disk full"))
	m.Finished("done")

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []int{1}, r.pages)
		assert.Len(t, r.failures, 1)
		assert.Equal(t, []string{"done"}, r.finished)
	}
	assert.Equal(t, 3, logs.Len())
}
