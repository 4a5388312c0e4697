package models

import (
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// Number is a float that survives JSON encoding when it is not a number:
// NaN (what a non-numeric form field parses to) is written as null.
type Number float64

// NaN returns the not-a-number Number.
func NaN() Number { return Number(math.NaN()) }

func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsNaN() || math.IsInf(float64(n), 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NaN()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// FormValues holds the raw strings typed into the new-bill form.
type FormValues struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// Draft is a not-yet-persisted bill assembled from the form. ID is the
// selector returned by the attachment upload and travels outside the body.
type Draft struct {
	ID         string `json:"-"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Amount     Number `json:"amount"`
	Date       string `json:"date"`
	VAT        Number `json:"vat"`
	Pct        int    `json:"pct"`
	Commentary string `json:"commentary"`
	FileURL    string `json:"fileUrl"`
	FileName   string `json:"fileName"`
	Status     Status `json:"status"`
}
