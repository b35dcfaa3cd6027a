package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/application/inventory"
)

// SaleHandler maneja ventas directas: el cliente acumula líneas localmente y
// las finaliza en una sola llamada atómica contra el motor de ajustes.
type SaleHandler struct {
	adjuster *inventory.StockAdjusterUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(adjuster *inventory.StockAdjusterUseCase) *SaleHandler {
	return &SaleHandler{adjuster: adjuster}
}

// Process godoc
// @Summary      Finalizar venta directa (atómico)
// @Description  Descuenta el stock de todas las líneas acumuladas y agrega una
//               entrada DIRECT_SALE al historial de cada artículo. Todo o nada:
//               el resultado siempre es 200 con ok true/false.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessSaleRequest  true  "Líneas de la venta"
// @Success      200   {object}  dto.AdjustmentResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la venta necesita al menos una línea"})
	}
	saleID := in.SaleID
	if saleID == "" {
		saleID = uuid.New().String()
	}
	lines := make([]inventory.SaleLine, 0, len(in.Lines))
	for _, ln := range in.Lines {
		lines = append(lines, inventory.SaleLine{
			ItemID:   ln.ItemID,
			ItemName: ln.ItemName,
			Quantity: ln.Quantity,
		})
	}
	res := h.adjuster.ProcessDirectSale(c.Context(), lines, saleID)
	return c.JSON(toAdjustmentResponse(res))
}
