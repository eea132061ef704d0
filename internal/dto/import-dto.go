package dto

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResultDTO struct {
	Created int              `json:"created"`
	Failed  []ImportRowError `json:"failed"`
}
