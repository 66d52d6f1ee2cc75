package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Page
		want Page
	}{
		{"zerada vira defaults", Page{}, Page{Number: 1, PerPage: 20}},
		{"negativa vira defaults", Page{Number: -2, PerPage: -5}, Page{Number: 1, PerPage: 20}},
		{"acima do teto volta pro default", Page{Number: 3, PerPage: 500}, Page{Number: 3, PerPage: 20}},
		{"dentro da faixa fica como está", Page{Number: 2, PerPage: 50}, Page{Number: 2, PerPage: 50}},
		{"teto exato é aceito", Page{Number: 1, PerPage: 100}, Page{Number: 1, PerPage: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())

			limit, offset := tc.in.limitOffset()
			assert.Equal(t, tc.want.PerPage, limit)
			assert.Equal(t, (tc.want.Number-1)*tc.want.PerPage, offset)
		})
	}
}
