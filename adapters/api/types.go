package api

import (
	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/domain/table"
)

// NormalizeRequest carries a raw table as {"columns":[{"name","values"}]}
type NormalizeRequest struct {
	table.RawTable
}

// NormalizeResponse is the cleaned table and its per-column decisions
type NormalizeResponse struct {
	Table   *table.CleanTable         `json:"table"`
	Reports []normalizer.ColumnReport `json:"reports"`
}

// ProfileRequest is a raw table plus optional column descriptions
type ProfileRequest struct {
	table.RawTable
	Descriptions map[string]string `json:"descriptions,omitempty"`
}

// SaveTableRequest asks for a raw table to be normalized and persisted
type SaveTableRequest struct {
	table.RawTable
	Name        string `json:"name" binding:"required"`
	SourceSheet string `json:"source_sheet"`
}

// SaveTableResponse is the catalog entry of a persisted table and its clean form
type SaveTableResponse struct {
	Record *table.TableRecord `json:"record"`
	Table  *table.CleanTable  `json:"table"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
