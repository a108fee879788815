package notification

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

var rupiahPrinter = message.NewPrinter(language.Indonesian)

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"rupiah": func(amount int64) string {
		return rupiahPrinter.Sprintf("Rp %d", amount)
	},
}).ParseFS(templatesFS, "templates/*.html"))

// StatusChange is sent after an application status has been committed.
type StatusChange struct {
	ApplicationID string
	Status        string
	Email         string
	CustomerName  string
}

// Received is sent after a new application has been stored.
type Received struct {
	ApplicationID string
	Email         string
	CustomerName  string
	LoanType      string
	LoanAmount    int64
	TenorMonths   int
}

type statusCopy struct {
	subject  string
	label    string
	headline string
	body     string
}

var statusCopies = map[string]statusCopy{
	"pending": {
		subject:  "Your loan application status has been updated",
		label:    "Pending",
		headline: "Your loan application is waiting to be reviewed.",
	},
	"reviewing": {
		subject:  "Your loan application is under review",
		label:    "Under review",
		headline: "Our team has started reviewing your loan application.",
		body:     "We may contact you if we need further documents.",
	},
	"approved": {
		subject:  "Your loan application has been approved",
		label:    "Approved",
		headline: "We are pleased to let you know that your loan application has been approved.",
		body:     "Our team will contact you shortly to discuss the next steps.",
	},
	"rejected": {
		subject:  "Update on your loan application",
		label:    "Not approved",
		headline: "After careful review we are unable to approve your loan application at this time.",
		body:     "You are welcome to apply again in the future.",
	},
}

// StatusNotifier renders customer emails and hands them to a Dispatcher. Every
// delivery runs under its own timeout on a context that outlives the request.
type StatusNotifier struct {
	dispatcher Dispatcher
	timeout    time.Duration
	signature  string
}

func NewStatusNotifier(dispatcher Dispatcher, timeout time.Duration, signature string) *StatusNotifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StatusNotifier{dispatcher: dispatcher, timeout: timeout, signature: signature}
}

// RenderStatusChange builds the email for c without sending it.
func (n *StatusNotifier) RenderStatusChange(c StatusChange) (Message, error) {
	sc, ok := statusCopies[c.Status]
	if !ok {
		sc = statusCopy{
			subject:  "Your loan application status has been updated",
			label:    c.Status,
			headline: "The status of your loan application has changed.",
		}
	}
	html, err := render("status_changed.html", map[string]any{
		"CustomerName":  c.CustomerName,
		"Headline":      sc.headline,
		"ApplicationID": c.ApplicationID,
		"StatusLabel":   sc.label,
		"Body":          sc.body,
		"Signature":     n.signature,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: c.Email, Subject: sc.subject, HTML: html}, nil
}

// RenderReceived builds the confirmation email for r without sending it.
func (n *StatusNotifier) RenderReceived(r Received) (Message, error) {
	html, err := render("application_received.html", map[string]any{
		"CustomerName":  r.CustomerName,
		"LoanType":      strings.ReplaceAll(r.LoanType, "_", " "),
		"LoanAmount":    r.LoanAmount,
		"TenorMonths":   r.TenorMonths,
		"ApplicationID": r.ApplicationID,
		"Signature":     n.signature,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: r.Email, Subject: "We have received your loan application", HTML: html}, nil
}

// RenderTest builds the SMTP check email.
func (n *StatusNotifier) RenderTest(to, adminURL string) (Message, error) {
	html, err := render("smtp_test.html", map[string]any{
		"AdminURL":  adminURL,
		"Signature": n.signature,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "SMTP test email", HTML: html}, nil
}

func (n *StatusNotifier) StatusChanged(ctx context.Context, c StatusChange) Receipt {
	msg, err := n.RenderStatusChange(c)
	if err != nil {
		return n.report("status_changed", c.Email, failed(err))
	}
	return n.Deliver(ctx, "status_changed", msg)
}

func (n *StatusNotifier) ApplicationReceived(ctx context.Context, r Received) Receipt {
	msg, err := n.RenderReceived(r)
	if err != nil {
		return n.report("application_received", r.Email, failed(err))
	}
	return n.Deliver(ctx, "application_received", msg)
}

// Deliver sends msg and logs any failure. The caller's cancellation does not abort delivery.
func (n *StatusNotifier) Deliver(ctx context.Context, op string, msg Message) Receipt {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	return n.report(op, msg.To, n.dispatcher.Send(sendCtx, msg))
}

func (n *StatusNotifier) report(op, to string, r Receipt) Receipt {
	if r.Err == nil && !r.Success {
		r.Err = errUnsent
	}
	if r.Err != nil {
		r.Success = false
		log.Printf("notification failed: %v", &NotificationError{Op: op, To: to, Err: r.Err})
		return r
	}
	log.Printf("notification sent: op=%s to=%s message_id=%s", op, to, r.MessageID)
	return r
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
