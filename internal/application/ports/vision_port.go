package ports

import (
	"context"

	"github.com/hidrive/inventario-api/internal/application/dto"
)

// VisionService puerto hacia el colaborador de análisis de imágenes. El core
// nunca decide con la imagen: solo consume el resultado ya estructurado al
// crear o editar artículos.
type VisionService interface {
	AnalyzeImage(ctx context.Context, imageBase64, mimeType, hint string) (*dto.ImageAnalysisDTO, error)
}
