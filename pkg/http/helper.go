package http

import (
	"net/http"
	"strconv"
	"time"

	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
)

// DateLayout is the wire format for travel dates.
const DateLayout = "2006-01-02"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads a required YYYY-MM-DD query parameter and returns its
// canonical form.
func ExtractDate(r *http.Request, param string) (string, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return "", apperrors.InvalidInput("'" + param + "' query parameter is required")
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", apperrors.InvalidInput("invalid " + param + " parameter, must be YYYY-MM-DD")
	}
	return parsed.Format(DateLayout), nil
}
