package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jonwraymond/typeahead/cache"
	"github.com/jonwraymond/typeahead/users"
)

// SuggestResponse is the body of GET /api/suggest.
type SuggestResponse struct {
	Query       string       `json:"query"`
	Suggestions []users.User `json:"suggestions"`
}

// StatsResponse is the body of GET /api/cache/stats.
type StatsResponse struct {
	Namespace string `json:"namespace"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Coalesced uint64 `json:"coalesced"`
	Failures  uint64 `json:"failures"`
	Expired   uint64 `json:"expired"`
	Entries   int    `json:"entries"`
	Inflight  int    `json:"inflight"`
	LastError string `json:"last_error,omitempty"`
}

func (s *Server) handleSuggest(c echo.Context) error {
	ctx := c.Request().Context()
	q := c.QueryParam("q")

	var (
		list []users.User
		err  error
	)
	if raw := c.QueryParam("limit"); raw != "" {
		limit, perr := strconv.Atoi(raw)
		if perr != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidLimit.Error())
		}
		list, err = s.suggester.SuggestN(ctx, q, limit)
	} else {
		list, err = s.suggester.Suggest(ctx, q)
	}
	if err != nil {
		return err
	}
	if list == nil {
		list = []users.User{}
	}
	return c.JSON(http.StatusOK, SuggestResponse{Query: q, Suggestions: list})
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, toStatsResponse(s.statsSource.Namespace(), s.statsSource.Stats()))
}

func toStatsResponse(ns string, st cache.Stats) StatsResponse {
	r := StatsResponse{
		Namespace: ns,
		Hits:      st.Hits,
		Misses:    st.Misses,
		Coalesced: st.Coalesced,
		Failures:  st.Failures,
		Expired:   st.Expired,
		Entries:   st.Entries,
		Inflight:  st.Inflight,
	}
	if st.LastError != nil {
		r.LastError = st.LastError.Error()
	}
	return r
}
