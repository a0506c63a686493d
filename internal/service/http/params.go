package httpsvc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultOffset = 0
	defaultLimit  = 25

	maxBodyBytes = 1 << 20

	totalCountHeader = "X-Total-Count"
)

// pageParams читает offset и limit, подставляя значения по умолчанию.
// Отрицательные значения пропускаются дальше: их отклоняет хранилище.
func pageParams(r *http.Request) (offset, limit int, err error) {
	offset, err = intParam(r, "offset", defaultOffset)
	if err != nil {
		return 0, 0, err
	}
	limit, err = intParam(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("query parameter "+name+" must be an integer", nil)
	}
	return value, nil
}

// decodeBody разбирает JSON-тело. strict запрещает неизвестные ключи.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty", nil)
		}
		return badRequest("malformed JSON body", err)
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object", nil)
	}
	return nil
}

func setTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set(totalCountHeader, strconv.Itoa(total))
}
