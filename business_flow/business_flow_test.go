package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagereach/pagereach/app/dto"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
		wantErr    error
	}{
		{name: "Defaults", page: 0, limit: 0, wantLimit: 20, wantOffset: 0},
		{name: "FirstPageExplicit", page: 1, limit: 10, wantLimit: 10, wantOffset: 0},
		{name: "ThirdPage", page: 3, limit: 25, wantLimit: 25, wantOffset: 50},
		{name: "ZeroPageUsesDefault", page: 0, limit: 10, wantLimit: 10, wantOffset: 0},
		{name: "NegativePage", page: -1, limit: 10, wantErr: ErrInvalidPage},
		{name: "NegativeLimit", page: 1, limit: -5, wantErr: ErrInvalidPageSize},
		{name: "LimitTooLarge", page: 1, limit: 101, wantErr: ErrInvalidPageSize},
		{name: "LimitAtCap", page: 2, limit: 100, wantLimit: 100, wantOffset: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset, err := normalizePagination(dto.PaginationRequest{Page: tc.page, Limit: tc.limit})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}
