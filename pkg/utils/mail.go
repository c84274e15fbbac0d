package utils

import (
	"fmt"
	"os"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Запасной канал подменяется в тестах.
var smtpFallback = SendSyncAlert

// SendSyncAlertMailjet шлёт оператору письмо о провале синхронизации кошелька.
// Отправка best-effort: без ключей Mailjet или при ошибке отправки
// уходим на запасной SMTP-канал.
func SendSyncAlertMailjet(address, blockchain, reason string) {
	apiKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		logrus.Warn("MAILJET_API_KEY или MAILJET_SECRET_KEY не установлены, пробуем SMTP")
		smtpFallback(address, blockchain, reason)
		return
	}

	fromEmail := os.Getenv("ALERT_FROM_EMAIL")
	toEmail := os.Getenv("ALERT_TO_EMAIL")
	if fromEmail == "" || toEmail == "" {
		logrus.Warn("ALERT_FROM_EMAIL/ALERT_TO_EMAIL не установлены, алерт не отправлен")
		return
	}

	body := alertBody(address, blockchain, reason)

	mj := mailjet.NewMailjetClient(apiKey, secretKey)
	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: fromEmail,
				Name:  "Wallet Sync",
			},
			To: &mailjet.RecipientsV31{
				{
					Email: toEmail,
					Name:  "Оператор",
				},
			},
			Subject:  "Ошибка синхронизации кошелька",
			HTMLPart: body,
		},
	}
	messages := &mailjet.MessagesV31{Info: messagesInfo}
	if _, err := mj.SendMailV31(messages); err != nil {
		logrus.Errorf("Ошибка при отправке алерта через Mailjet: %s", err)
		smtpFallback(address, blockchain, reason)
		return
	}
	logrus.Infof("Алерт отправлен: кошелёк %s (%s)", address, blockchain)
}

// SendSyncAlert — запасной путь через SMTP Gmail, если Mailjet недоступен.
func SendSyncAlert(address, blockchain, reason string) {
	from := os.Getenv("ALERT_FROM_EMAIL")
	password := os.Getenv("GMAIL_APP_PASSWORD")
	to := os.Getenv("ALERT_TO_EMAIL")
	if from == "" || password == "" || to == "" {
		logrus.Warn("SMTP-переменные не установлены, алерт не отправлен")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Ошибка синхронизации кошелька")
	m.SetBody("text/html", alertBody(address, blockchain, reason))

	d := gomail.NewDialer("smtp.gmail.com", 587, from, password)
	if err := d.DialAndSend(m); err != nil {
		logrus.Errorf("Ошибка при отправке алерта по SMTP: %s", err)
	} else {
		logrus.Infof("Алерт отправлен по SMTP: кошелёк %s (%s)", address, blockchain)
	}
}

func alertBody(address, blockchain, reason string) string {
	return fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f3f2f0;border-radius:28px;">
    <tr>
      <td style="padding:32px;text-align:left;">
        <h1 style="margin:0 0 12px 0;font-family:Arial,sans-serif;font-size:28px;color:#111;">Синхронизация не прошла</h1>
        <table cellpadding="0" cellspacing="0" border="0" style="width:100%%;">
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Адрес:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%s</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Сеть:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%s</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Причина:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;padding:6px 0;">%s</td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`, address, blockchain, reason)
}
