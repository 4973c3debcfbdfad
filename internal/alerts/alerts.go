package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/config"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

const DailyAlertLogKey = "stock:alerts:daily"

type AlertLogEntry struct {
	ProductID int         `json:"product_id"`
	Product   string      `json:"product"`
	Level     stock.Level `json:"level"`
	Quantity  int         `json:"quantity"`
	Minimum   int         `json:"minimum"`
	Time      time.Time   `json:"time"`
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier logs stock alerts, keeps them in a Redis list for the daily summary
// and e-mails them when SMTP is configured. rdb may be nil.
type Notifier struct {
	rdb  *redis.Client
	mail config.MailConfig
	send SendFunc
}

func NewNotifier(rdb *redis.Client, mail config.MailConfig) *Notifier {
	return &Notifier{rdb: rdb, mail: mail, send: smtp.SendMail}
}

// StockAlert implements stock.Notifier.
func (n *Notifier) StockAlert(ctx context.Context, p models.Product, level stock.Level) {
	log.Printf("⚠️ ALERT: Product %d (%s) is %s! Qty=%d, Minimum=%d", p.ID, p.Name, level, p.Quantity, p.Minimum)

	entry := AlertLogEntry{
		ProductID: p.ID,
		Product:   p.Name,
		Level:     level,
		Quantity:  p.Quantity,
		Minimum:   p.Minimum,
		Time:      time.Now().UTC(),
	}
	n.logAlert(ctx, entry)

	if !n.mail.MailEnabled() {
		return
	}
	subject := fmt.Sprintf("⚠️ STOCK ALERT: %s is %s", p.Name, level)
	body := fmt.Sprintf("Product: %s (#%d)\nLevel: %s\nQuantity: %d\nMinimum: %d\nTime: %s",
		p.Name, p.ID, level, p.Quantity, p.Minimum, entry.Time.Format(time.RFC3339))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.mail.From, n.mail.To, subject, body)

	go n.sendMail([]byte(msg), "")
}

func (n *Notifier) logAlert(ctx context.Context, entry AlertLogEntry) {
	if n.rdb == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := n.rdb.RPush(ctx, DailyAlertLogKey, data).Err(); err != nil {
		log.Printf("could not store stock alert: %v", err)
	}
}

func (n *Notifier) sendMail(msg []byte, okLog string) {
	addr := fmt.Sprintf("%s:%s", n.mail.Server, n.mail.Port)
	auth := smtp.PlainAuth("", n.mail.User, n.mail.Password, n.mail.Server)
	if n.mail.AuthDisabled {
		auth = nil
	}

	if err := n.send(addr, auth, n.mail.From, []string{n.mail.To}, msg); err != nil {
		log.Printf("❌ Failed to send email: %v", err)
		return
	}
	if okLog != "" {
		log.Println(okLog)
	}
}

// StartDailySummary mails the accumulated alerts once a day at 23:59 until ctx ends.
func (n *Notifier) StartDailySummary(ctx context.Context, interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}

		t := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			n.SendDailySummary(ctx)
		}
	}
}

// SendDailySummary drains the alert list and mails it as an HTML report.
func (n *Notifier) SendDailySummary(ctx context.Context) {
	if n.rdb == nil {
		return
	}
	items, err := n.drainAlerts(ctx)
	if err != nil {
		log.Printf("could not read stock alerts: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	entries := make([]AlertLogEntry, 0, len(items))
	for _, item := range items {
		var entry AlertLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			entries = append(entries, entry)
		}
	}

	if !n.mail.MailEnabled() {
		log.Printf("📊 %d stock alerts today; mail disabled", len(entries))
		return
	}

	msg := strings.Join([]string{
		"From: " + n.mail.From,
		"To: " + n.mail.To,
		"Subject: 📊 Daily Stock Alert Report",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		BuildSummary(entries),
	}, "\r\n")

	go n.sendMail([]byte(msg), "📬 Daily stock summary sent via SMTP.")
}

// drainAlerts reads and clears the alert list in one MULTI/EXEC, so alerts
// pushed concurrently land either in this summary or in the next one.
func (n *Notifier) drainAlerts(ctx context.Context) ([]string, error) {
	var items *redis.StringSliceCmd
	_, err := n.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, DailyAlertLogKey, 0, -1)
		pipe.Del(ctx, DailyAlertLogKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items.Val(), nil
}

// BuildSummary renders alert entries as an HTML fragment.
func BuildSummary(entries []AlertLogEntry) string {
	levelCounts := make(map[stock.Level]int)
	productCounts := make(map[string]int)
	for _, e := range entries {
		levelCounts[e.Level]++
		productCounts[e.Product]++
	}

	var sb strings.Builder
	sb.WriteString("<h2>📊 Daily Stock Alert Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total alerts: <strong>%d</strong></p>", len(entries)))

	sb.WriteString("<h3>🚦 By Level</h3><ul>")
	for _, level := range []stock.Level{stock.Critical, stock.Low} {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", level, levelCounts[level]))
	}
	sb.WriteString("</ul>")

	names := make([]string, 0, len(productCounts))
	for name := range productCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("<h3>📦 By Product</h3><ul>")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", html.EscapeString(name), productCounts[name]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>📋 Full Log</h3><ul>")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> %s (qty %d, min %d) at %s</li>",
			html.EscapeString(e.Product), e.Level, e.Quantity, e.Minimum, e.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")

	return sb.String()
}
