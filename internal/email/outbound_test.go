package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/yourusername/casetracker/internal/config"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestLabelMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	m := NewLabelMailerWithDialer("", "printer@example.org", d)

	require.NoError(t, m.Send("Label Texas/1234/3", "Jane Doe", "/tmp/3.txt"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"printer@example.org"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"printer@example.org"}, d.sent[0].GetHeader("From"))
	assert.Equal(t, []string{"Label Texas/1234/3"}, d.sent[0].GetHeader("Subject"))
}

func TestLabelMailer_SendError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := NewLabelMailerWithDialer("desk@example.org", "printer@example.org", d)
	err := m.Send("s", "l", "f")
	assert.ErrorContains(t, err, "connection refused")
}

func TestNewLabelMailer_Unconfigured(t *testing.T) {
	m := NewLabelMailer(config.LabelConfig{})
	assert.Nil(t, m)
	assert.ErrorIs(t, m.Send("s", "l", "f"), ErrNotConfigured)

	m = NewLabelMailer(config.LabelConfig{SMTPHost: "localhost", SMTPPort: 25, PrintTo: "printer@example.org"})
	assert.NotNil(t, m)
}
