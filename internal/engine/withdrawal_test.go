package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalTransition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		from       string
		to         string
		wantRefund bool
		wantErr    error
		wantStamp  bool
	}{
		{name: "pendente para processando", from: StatusPendente, to: StatusProcessando},
		{name: "pendente direto para concluido", from: StatusPendente, to: StatusConcluido, wantStamp: true},
		{name: "processando para concluido", from: StatusProcessando, to: StatusConcluido, wantStamp: true},
		{name: "pendente para cancelado restaura saldo", from: StatusPendente, to: StatusCancelado, wantRefund: true, wantStamp: true},
		{name: "processando para cancelado restaura saldo", from: StatusProcessando, to: StatusCancelado, wantRefund: true, wantStamp: true},
		{name: "mesmo status e no-op", from: StatusProcessando, to: StatusProcessando},
		{name: "cancelar de novo nao re-credita", from: StatusCancelado, to: StatusCancelado},
		{name: "sair de concluido e ilegal", from: StatusConcluido, to: StatusPendente, wantErr: ErrInvalidStatus},
		{name: "sair de cancelado e ilegal", from: StatusCancelado, to: StatusProcessando, wantErr: ErrInvalidStatus},
		{name: "status desconhecido", from: StatusPendente, to: "aprovado", wantErr: ErrInvalidStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := &Withdrawal{Status: tc.from}

			refund, err := w.Transition(tc.to, now)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.from, w.Status)
				assert.False(t, refund)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRefund, refund)
			assert.Equal(t, tc.to, w.Status)
			if tc.wantStamp {
				require.NotNil(t, w.ProcessedAt)
				assert.Equal(t, now, *w.ProcessedAt)
			} else {
				assert.Nil(t, w.ProcessedAt)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPendente, StatusProcessando, StatusConcluido, StatusCancelado} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("aprovado"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("PENDENTE"))
}
