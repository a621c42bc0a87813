// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, PaginationParams{Count: 100, Page: 1, Order: "asc"}, params)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/tweets?count=999&page=0&order=DESC", nil)
	params, err = ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, PaginationParams{Count: MaxPaginationCount, Page: 1, Order: "desc"}, params)
	for _, query := range []string{"count=abc", "page=abc", "order=sideways"} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/tweets?"+query, nil)
		_, err = ParsePagination(req)
		require.ErrorIs(t, err, ErrInvalidPaginationParameters, query)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, paginate(items, PaginationParams{Count: 2, Page: 2, Order: "asc"}))
	assert.Equal(t, []int{4, 3}, paginate(items, PaginationParams{Count: 2, Page: 1, Order: "desc"}))
	assert.Equal(t, []int{}, paginate(items, PaginationParams{Count: 2, Page: 4, Order: "asc"}))
	// The input is left untouched
	assert.Equal(t, []int{0, 1, 2, 3, 4}, items)
}

func TestSetPaginationHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	SetPaginationHeaders(recorder, 250, PaginationParams{Count: 100, Page: 1})
	assert.Equal(t, "250", recorder.Header().Get("X-Pagination-Count-Total"))
	assert.Equal(t, "3", recorder.Header().Get("X-Pagination-Page-Total"))
	recorder = httptest.NewRecorder()
	SetPaginationHeaders(recorder, -1, PaginationParams{})
	assert.Equal(t, "0", recorder.Header().Get("X-Pagination-Count-Total"))
	assert.Equal(t, "0", recorder.Header().Get("X-Pagination-Page-Total"))
}
