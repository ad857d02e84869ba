package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	ReportEmail  string // recipient of shift close reports
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// ShiftReportLine is one transaction row in a shift close report
type ShiftReportLine struct {
	Time          string
	ItemCount     int
	PaymentMethod string
	Total         float64
}

// ShiftReport is the rendered content of a shift close notification.
// Amounts are decimal currency, already converted by the caller.
type ShiftReport struct {
	OpenedAt        time.Time
	ClosedAt        time.Time
	OpeningCash     float64
	ClosingCash     float64
	ExpectedCash    float64
	CashDifference  float64
	CashRevenue     float64
	CardRevenue     float64
	EwalletRevenue  float64
	QrPayRevenue    float64
	TotalRevenue    float64
	TotalExpenses   float64
	NetProfit       float64
	TransactionRows []ShiftReportLine
	Notes           string
}

// SendShiftReport sends the shift close report to the configured recipient.
// Callers treat delivery as best effort; a failure here must never affect
// the close itself.
func (s *EmailService) SendShiftReport(report ShiftReport) error {
	if s.config.ReportEmail == "" {
		return fmt.Errorf("no report recipient configured")
	}

	htmlContent, err := s.renderShiftReport(report)
	if err != nil {
		return fmt.Errorf("failed to render shift report: %w", err)
	}

	subject := fmt.Sprintf("Shift Report - %s", report.ClosedAt.Format("Jan 2, 2006 15:04"))
	message := s.buildHTMLEmail(s.config.ReportEmail, subject, htmlContent)

	return s.sendEmail(s.config.ReportEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return append([]byte(headers), []byte(htmlBody)...)
}

const shiftReportTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Shift Report</h2>
  <p>Opened {{.OpenedAt.Format "Jan 2, 2006 15:04"}} &mdash; Closed {{.ClosedAt.Format "Jan 2, 2006 15:04"}}</p>

  <h3>Cash Position</h3>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Opening Cash</td><td align="right">{{printf "%.2f" .OpeningCash}}</td></tr>
    <tr><td>Expected Cash</td><td align="right">{{printf "%.2f" .ExpectedCash}}</td></tr>
    <tr><td>Closing Cash</td><td align="right">{{printf "%.2f" .ClosingCash}}</td></tr>
    <tr><td><strong>Difference</strong></td><td align="right"><strong>{{printf "%.2f" .CashDifference}}</strong></td></tr>
  </table>

  <h3>Revenue by Payment Method</h3>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Cash</td><td align="right">{{printf "%.2f" .CashRevenue}}</td></tr>
    <tr><td>Card</td><td align="right">{{printf "%.2f" .CardRevenue}}</td></tr>
    <tr><td>E-Wallet</td><td align="right">{{printf "%.2f" .EwalletRevenue}}</td></tr>
    <tr><td>QR Pay</td><td align="right">{{printf "%.2f" .QrPayRevenue}}</td></tr>
    <tr><td><strong>Total</strong></td><td align="right"><strong>{{printf "%.2f" .TotalRevenue}}</strong></td></tr>
  </table>

  <h3>Summary</h3>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Total Expenses</td><td align="right">{{printf "%.2f" .TotalExpenses}}</td></tr>
    <tr><td>Net Profit</td><td align="right">{{printf "%.2f" .NetProfit}}</td></tr>
  </table>

  {{if .TransactionRows}}
  <h3>Transactions ({{len .TransactionRows}})</h3>
  <table cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><th>Time</th><th>Items</th><th>Method</th><th>Total</th></tr>
    {{range .TransactionRows}}
    <tr>
      <td>{{.Time}}</td>
      <td align="right">{{.ItemCount}}</td>
      <td>{{.PaymentMethod}}</td>
      <td align="right">{{printf "%.2f" .Total}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  {{if .Notes}}<p><em>Notes: {{.Notes}}</em></p>{{end}}
</body>
</html>
`

// renderShiftReport renders the shift report HTML
func (s *EmailService) renderShiftReport(report ShiftReport) (string, error) {
	tmpl, err := template.New("shift_report").Parse(shiftReportTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}
