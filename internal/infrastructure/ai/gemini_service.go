package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa VisionService.
var _ ports.VisionService = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// visionPrompt define el rol del modelo y el formato de salida. Con
	// response_mime_type=application/json Gemini devuelve JSON puro y no hace
	// falta limpiar bloques de markdown.
	visionPrompt = `Eres un asistente experto en gestión de inventarios. Analiza la imagen del artículo
y devuelve ÚNICAMENTE un objeto JSON (sin texto adicional) con la siguiente estructura exacta:
{
  "elemento_identificado": "<nombre conciso del artículo>",
  "cantidad_aproximada": <número entero de unidades visibles>,
  "estado_condicion": "<nuevo, usado, dañado o desconocido>",
  "caracteristicas_distintivas": "<marca, modelo, color u otros rasgos visibles>",
  "posible_categoria_de_inventario": "<categoría sugerida en español>"
}

Reglas:
- Si no puedes identificar el artículo, usa "desconocido" en elemento_identificado.
- cantidad_aproximada: 1 si solo se ve una unidad o no es posible contar.
- Responde siempre en español.`
)

// GeminiService adaptador que implementa VisionService llamando a la API REST
// de Google Gemini. Usa únicamente la librería estándar de Go (net/http) para
// no añadir dependencias externas.
type GeminiService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

// geminiPart lleva texto o una imagen inline, nunca ambos.
type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // imagen en base64
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// AnalyzeImage envía la imagen a Gemini y devuelve el análisis estructurado
// del artículo. hint es texto opcional del operador ("es un taladro", etc.).
func (s *GeminiService) AnalyzeImage(ctx context.Context, imageBase64, mimeType, hint string) (*dto.ImageAnalysisDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	userParts := []geminiPart{
		{InlineData: &inlineData{MIMEType: mimeType, Data: imageBase64}},
	}
	if hint != "" {
		userParts = append(userParts, geminiPart{Text: fmt.Sprintf("Contexto adicional del operador: %s", hint)})
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: visionPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: userParts,
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2, // baja temperatura para respuestas más deterministas
			MaxOutputTokens:  512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)

	var analysis dto.ImageAnalysisDTO
	if err := json.Unmarshal([]byte(rawJSON), &analysis); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}

	if analysis.ElementoIdentificado == "" {
		analysis.ElementoIdentificado = "desconocido"
	}
	if analysis.CantidadAproximada < 1 {
		analysis.CantidadAproximada = 1
	}

	return &analysis, nil
}
