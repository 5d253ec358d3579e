package mailer

import (
	"bytes"
	"html/template"
)

// NotificationEmailData holds data for the notification email template.
type NotificationEmailData struct {
	Title   string
	Message string
}

// BuildNotificationEmail renders the shared HTML wrapper around a
// notification message.
func BuildNotificationEmail(data NotificationEmailData) string {
	var buf bytes.Buffer
	_ = notificationTemplate.Execute(&buf, data)
	return buf.String()
}

var notificationTemplate = template.Must(template.New("notification").Parse(notificationHTMLTemplate))

const notificationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #4f46e5;">{{.Title}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; font-size: 15px; color: #374151;">
              <p style="margin: 0;">{{.Message}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 32px 32px; font-size: 12px; color: #9ca3af;">
              You are receiving this because of activity on your account.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
