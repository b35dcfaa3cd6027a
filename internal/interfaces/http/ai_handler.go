package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/application/ports"
)

// AIHandler maneja el análisis de imágenes de artículos asistido por IA.
type AIHandler struct {
	vision ports.VisionService
}

// NewAIHandler construye el handler.
func NewAIHandler(vision ports.VisionService) *AIHandler {
	return &AIHandler{vision: vision}
}

// AnalyzeImage godoc
// @Summary      Analizar imagen de un artículo con IA
// @Description  Envía la imagen al modelo de visión y devuelve el artículo
//               identificado, cantidad aproximada, condición y categoría
//               sugerida. El resultado es solo una sugerencia para precargar
//               el formulario de alta; nunca escribe inventario.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeImageRequest  true  "image_base64 (obligatorio), mime_type y hint opcionales"
// @Success      200   {object}  dto.ImageAnalysisDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/analyze-image [post]
func (h *AIHandler) AnalyzeImage(c *fiber.Ctx) error {
	var in dto.AnalyzeImageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}
	if in.ImageBase64 == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "image_base64 es obligatorio"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 25*time.Second)
	defer cancel()

	result, err := h.vision.AnalyzeImage(ctx, in.ImageBase64, in.MimeType, in.Hint)
	if err != nil {
		if isTimeout(err) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		if strings.Contains(err.Error(), "GEMINI_API_KEY") {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "AI_UNAVAILABLE", Message: "el servicio de análisis de imágenes no está configurado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}

// isTimeout detecta errores de timeout/cancelación de contexto en el mensaje de error.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}
