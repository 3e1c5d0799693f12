package utils

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"campuslands/models"
)

var (
	ErrNotObject    = errors.New("body is not a JSON object")
	ErrTrailingData = errors.New("unexpected data after JSON object")
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	ResponseJSON(w, status, error)
}

func ResponseJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("encode JSON response")
	}
}

// DecodeObject reads a JSON object from r. Numbers are kept as json.Number so
// integer fields can be told apart from fractional ones. An empty body
// decodes to an empty object.
func DecodeObject(r *http.Request) (map[string]interface{}, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]interface{}{}, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body interface{}
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	obj, ok := body.(map[string]interface{})
	if !ok {
		return nil, ErrNotObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return obj, nil
}
