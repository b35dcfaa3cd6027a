package dto

// AnalyzeImageRequest entrada para el análisis de imagen: la imagen en base64
// con su MIME type y una pista opcional del sistema de detección.
type AnalyzeImageRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	MimeType    string `json:"mime_type"`
	Hint        string `json:"hint"`
}

// ImageAnalysisDTO respuesta estructurada del colaborador de visión. Las claves
// JSON son el contrato acordado con el modelo (en español).
type ImageAnalysisDTO struct {
	ElementoIdentificado         string `json:"elemento_identificado"`
	CantidadAproximada           int    `json:"cantidad_aproximada"`
	EstadoCondicion              string `json:"estado_condicion"`
	CaracteristicasDistintivas   string `json:"caracteristicas_distintivas"`
	PosibleCategoriaDeInventario string `json:"posible_categoria_de_inventario"`
}
