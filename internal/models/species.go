package models

// Species maps a survey species code to its presentation names. Used
// for reporting only, never for computation.
type Species struct {
	Code           string `json:"code" db:"code"`
	CommonName     string `json:"common_name" db:"common_name"`
	ScientificName string `json:"scientific_name" db:"scientific_name"`
}
