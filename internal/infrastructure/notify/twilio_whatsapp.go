package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hidrive/inventario-api/internal/application/ports"
)

// Verificar en tiempo de compilación que TwilioWhatsApp implementa Notifier.
var _ ports.Notifier = (*TwilioWhatsApp)(nil)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioWhatsApp envía alertas de stock bajo por WhatsApp usando la API REST
// de Twilio. Usa únicamente la librería estándar de Go (net/http): el endpoint
// es un POST de formulario con basic auth y no justifica un SDK completo.
type TwilioWhatsApp struct {
	accountSID string
	authToken  string
	from       string // número WhatsApp del sandbox, p. ej. "whatsapp:+14155238886"
	to         string
	httpClient *http.Client
}

// NewTwilioWhatsApp construye el notificador. Si falta alguna credencial las
// alertas se descartan en silencio (el entorno de desarrollo no suele tenerlas).
func NewTwilioWhatsApp(accountSID, authToken, from, to string) *TwilioWhatsApp {
	return &TwilioWhatsApp{
		accountSID: accountSID,
		authToken:  authToken,
		from:       normalizeWhatsApp(from),
		to:         normalizeWhatsApp(to),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured indica si hay credenciales suficientes para enviar.
func (t *TwilioWhatsApp) Configured() bool {
	return t.accountSID != "" && t.authToken != "" && t.from != "" && t.to != ""
}

// SendAlert envía el mensaje por WhatsApp. Best-effort: el caller decide qué
// hacer con el error, normalmente solo loguearlo.
func (t *TwilioWhatsApp) SendAlert(ctx context.Context, message string) error {
	if !t.Configured() {
		return fmt.Errorf("notify: credenciales de Twilio no configuradas")
	}

	form := url.Values{}
	form.Set("From", t.from)
	form.Set("To", t.to)
	form.Set("Body", message)

	endpoint := fmt.Sprintf(twilioMessagesURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: crear HTTP request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("notify: Twilio HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// normalizeWhatsApp antepone el prefijo "whatsapp:" si el número no lo trae.
func normalizeWhatsApp(number string) string {
	if number == "" || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
