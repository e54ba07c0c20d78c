package dto

type UploadCatalogResponse struct {
	Table    string   `json:"table"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

type CatalogPreviewResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type CatalogSchemaResponse struct {
	Table      string   `json:"table"`
	Columns    []string `json:"columns"`
	Categories []string `json:"categories"`
	Tables     []string `json:"tables"`
}
