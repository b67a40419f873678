package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// taipei is the coach's local zone for rendered timestamps.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

var bookingTmpl = template.Must(template.New("booking").Parse(`<p>新的預約諮詢</p>
<ul>
<li>姓名：{{.Name}}</li>
<li>Email：{{.Email}}</li>
<li>時間：{{.When}}</li>
</ul>
{{if .Message}}<p>留言：</p><blockquote>{{.Message}}</blockquote>{{end}}
<p><a href="{{.AdminURL}}">前往後台處理</a></p>`))

var pushTmpl = template.Must(template.New("push").Parse(`<h2>{{.Title}}</h2>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}`))

// BookingNotice is the data for a new-booking notification to the coach.
type BookingNotice struct {
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
	AdminURL  string
}

// BookingNotification renders the coach notification for a new booking.
// The reply-to is the client so the coach can answer directly.
func BookingNotification(to string, n BookingNotice) (SendRequest, error) {
	var buf bytes.Buffer
	err := bookingTmpl.Execute(&buf, struct {
		BookingNotice
		When string
	}{n, n.CreatedAt.In(taipei).Format("2006-01-02 15:04")})
	if err != nil {
		return SendRequest{}, fmt.Errorf("render booking notification: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "新預約：" + n.Name,
		HTML:    buf.String(),
		ReplyTo: n.Email,
	}, nil
}

// PushBroadcast renders a push message as an email to each recipient.
// Blank-line separated paragraphs become <p> blocks.
func PushBroadcast(recipients []string, title, body string) ([]SendRequest, error) {
	var buf bytes.Buffer
	if err := pushTmpl.Execute(&buf, struct {
		Title      string
		Paragraphs []string
	}{title, paragraphs(body)}); err != nil {
		return nil, fmt.Errorf("render push email: %w", err)
	}
	reqs := make([]SendRequest, 0, len(recipients))
	for _, to := range recipients {
		reqs = append(reqs, SendRequest{To: []string{to}, Subject: title, HTML: buf.String()})
	}
	return reqs, nil
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range bytes.Split([]byte(body), []byte("\n\n")) {
		if s := string(bytes.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
