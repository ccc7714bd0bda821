package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/leekchan/accounting"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {

	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth(m.config.From, m.config.Username, m.config.Password, m.config.Host)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	if err != nil {
		log.Printf("Mailer: Failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

func (m *Mailer) SendOrderPaidEmail(order *models.Order) error {
	if order.User.Email == "" {
		// Caller did not preload the user; skip rather than fail reconciliation.
		log.Printf("Mailer: Order %s has no user email loaded, skipping confirmation mail.", order.OrderCode)
		return nil
	}
	subject := fmt.Sprintf("Pembayaran Diterima - Pesanan %s", order.OrderCode)
	return m.SendHTMLEmail(order.User.Email, subject, BuildOrderPaidEmailBody(order))
}

var rupiah = accounting.Accounting{Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","}

func BuildOrderPaidEmailBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		rows.WriteString(fmt.Sprintf(
			`<tr><td>%s</td><td>%s / %smm</td><td>%d</td><td>%s</td></tr>`,
			item.FileName, item.Material, item.LayerHeight, item.Qty,
			rupiah.FormatMoney(item.TotalPrice),
		))
	}

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Pembayaran Diterima</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                table { width: 100%%; border-collapse: collapse; }
                th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
                .total { font-weight: bold; }
            </style>
        </head>
        <body>
            <div class="container">
                <h2>Pembayaran untuk pesanan %s telah kami terima.</h2>
                <p>Pesanan Anda sekarang dalam tahap review sebelum masuk antrian cetak.</p>
                <table>
                    <tr><th>File</th><th>Konfigurasi</th><th>Qty</th><th>Harga</th></tr>
                    %s
                </table>
                <p>Subtotal: %s</p>
                <p>Ongkos Kirim (%s - %s): %s</p>
                <p class="total">Total: %s</p>
                <p>Terima kasih telah mencetak bersama kami.</p>
            </div>
        </body>
        </html>
    `,
		order.OrderCode,
		rows.String(),
		rupiah.FormatMoney(order.Subtotal),
		order.Courier, order.ShippingService,
		rupiah.FormatMoney(order.ShippingCost),
		rupiah.FormatMoney(order.TotalAmount),
	)
}
